package services

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The client submits the desired image order as a JSON array mixing two token
// kinds: the identifier of an already stored image, and "new_<i>" referencing
// the i-th file uploaded in the same request. Numbers and numeric strings are
// both accepted as identifiers.

const newImagePrefix = "new_"

type orderTokenKind int

const (
	tokenImageID orderTokenKind = iota
	tokenNewIndex
)

type orderToken struct {
	kind     orderTokenKind
	value    int
	position int
}

// parseImagesOrder decodes the images_order payload into tokens.
//
// A payload that is not a JSON array at all returns ok=false: the caller skips
// the whole reorder step and the request still succeeds. Individual tokens
// that cannot be understood are dropped but keep their slot: every token's
// position is its index in the supplied sequence, so an ignored token never
// shifts its neighbors.
func parseImagesOrder(payload string) (tokens []orderToken, ok bool) {
	if strings.TrimSpace(payload) == "" {
		return nil, false
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, false
	}

	tokens = make([]orderToken, 0, len(raw))
	for i, item := range raw {
		if token, valid := parseOrderToken(item); valid {
			token.position = i
			tokens = append(tokens, token)
		}
	}
	return tokens, true
}

func parseOrderToken(item json.RawMessage) (orderToken, bool) {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		if idx, found := strings.CutPrefix(s, newImagePrefix); found {
			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 {
				return orderToken{}, false
			}
			return orderToken{kind: tokenNewIndex, value: n}, true
		}
		id, err := strconv.Atoi(s)
		if err != nil || id <= 0 {
			return orderToken{}, false
		}
		return orderToken{kind: tokenImageID, value: id}, true
	}

	var id int
	if err := json.Unmarshal(item, &id); err == nil && id > 0 {
		return orderToken{kind: tokenImageID, value: id}, true
	}
	return orderToken{}, false
}
