package models

// Category codes are stored as-is; display labels are plain lookup tables
// rather than anything attached to the persistence layer.

const (
	TechnologyPlayerIssue = "PLAYER_ISSUE"
	TechnologyReplica     = "REPLICA"
	TechnologyMatchWorn   = "MATCH_WORN"
)

const (
	SizeKids = "KIDS"
	SizeXS   = "XS"
	SizeS    = "S"
	SizeM    = "M"
	SizeL    = "L"
	SizeXL   = "XL"
	SizeXXL  = "XXL"
	SizeXXXL = "XXXL"
)

const (
	ConditionBNWT     = "BNWT"
	ConditionMint     = "MINT"
	ConditionVeryGood = "VERY_GOOD"
	ConditionGood     = "GOOD"
	ConditionFair     = "FAIR"
	ConditionPoor     = "POOR"
)

// Option is a single value/label pair for the front-end selects.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var TechnologyOptions = []Option{
	{TechnologyPlayerIssue, "Player Issue"},
	{TechnologyReplica, "Replica"},
	{TechnologyMatchWorn, "Match Worn"},
}

var KitTypeOptions = []Option{
	{"Home", "Home"},
	{"Away", "Away"},
	{"Third", "Third"},
	{"Fourth", "Fourth"},
	{"Cup", "Cup"},
	{"Training", "Training"},
	{"GK", "Goalkeeper"},
}

var SizeOptions = []Option{
	{SizeKids, "Kids"},
	{SizeXS, "Extra Small (XS)"},
	{SizeS, "Small (S)"},
	{SizeM, "Medium (M)"},
	{SizeL, "Large (L)"},
	{SizeXL, "Extra Large (XL)"},
	{SizeXXL, "Double Extra Large (XXL)"},
	{SizeXXXL, "Triple Extra Large (XXXL)"},
}

var ConditionOptions = []Option{
	{ConditionBNWT, "Brand New With Tags"},
	{ConditionMint, "New Without Tags"},
	{ConditionVeryGood, "Very Good Condition"},
	{ConditionGood, "Good Condition"},
	{ConditionFair, "Fair Condition"},
	{ConditionPoor, "Poor Condition"},
}

func displayLabel(options []Option, code string) string {
	for _, o := range options {
		if o.Value == code {
			return o.Label
		}
	}
	return code
}

func TechnologyDisplay(code string) string { return displayLabel(TechnologyOptions, code) }

func ConditionDisplay(code string) string { return displayLabel(ConditionOptions, code) }

func SizeDisplay(code string) string { return displayLabel(SizeOptions, code) }
