package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseImagesOrder(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []orderToken
		ok      bool
	}{
		{
			name:    "empty payload",
			payload: "",
			ok:      false,
		},
		{
			name:    "whitespace payload",
			payload: "   ",
			ok:      false,
		},
		{
			name:    "not a JSON array",
			payload: `{"order": [1, 2]}`,
			ok:      false,
		},
		{
			name:    "malformed JSON",
			payload: `[1, 2,`,
			ok:      false,
		},
		{
			name:    "numbers and numeric strings are both ids",
			payload: `[5, "3", 12]`,
			want: []orderToken{
				{kind: tokenImageID, value: 5, position: 0},
				{kind: tokenImageID, value: 3, position: 1},
				{kind: tokenImageID, value: 12, position: 2},
			},
			ok: true,
		},
		{
			name:    "new upload placeholders mix with ids",
			payload: `["5", "new_0", 3, "new_1"]`,
			want: []orderToken{
				{kind: tokenImageID, value: 5, position: 0},
				{kind: tokenNewIndex, value: 0, position: 1},
				{kind: tokenImageID, value: 3, position: 2},
				{kind: tokenNewIndex, value: 1, position: 3},
			},
			ok: true,
		},
		{
			name:    "unreadable tokens are dropped but keep their slot",
			payload: `[5, "garbage", "new_x", -4, 0, "new_-1", 7]`,
			want: []orderToken{
				{kind: tokenImageID, value: 5, position: 0},
				{kind: tokenImageID, value: 7, position: 6},
			},
			ok: true,
		},
		{
			name:    "empty array is a valid no-op order",
			payload: `[]`,
			want:    []orderToken{},
			ok:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, ok := parseImagesOrder(tt.payload)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, tokens)
			} else {
				assert.Nil(t, tokens)
			}
		})
	}
}
