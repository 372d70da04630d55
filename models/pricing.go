package models

import "github.com/shopspring/decimal"

// Valuation multipliers. Exact decimal constants: the final value is money and
// must not pick up binary floating point noise on the way to the database.
var sizeMultipliers = map[string]decimal.Decimal{
	SizeKids: decimal.RequireFromString("0.25"),
	SizeXS:   decimal.RequireFromString("0.4"),
	SizeS:    decimal.RequireFromString("0.6"),
	SizeM:    decimal.RequireFromString("0.9"),
	SizeL:    decimal.RequireFromString("1.0"),
	SizeXL:   decimal.RequireFromString("0.9"),
	SizeXXL:  decimal.RequireFromString("0.75"),
	SizeXXXL: decimal.RequireFromString("0.6"),
}

var conditionMultipliers = map[string]decimal.Decimal{
	ConditionBNWT:     decimal.RequireFromString("2.0"),
	ConditionMint:     decimal.RequireFromString("1.5"),
	ConditionVeryGood: decimal.RequireFromString("1.0"),
	ConditionGood:     decimal.RequireFromString("0.85"),
	ConditionFair:     decimal.RequireFromString("0.7"),
	ConditionPoor:     decimal.RequireFromString("0.5"),
}

var technologyMultipliers = map[string]decimal.Decimal{
	TechnologyPlayerIssue: decimal.RequireFromString("1.5"),
	TechnologyReplica:     decimal.RequireFromString("1.0"),
	TechnologyMatchWorn:   decimal.RequireFromString("5.0"),
}

var one = decimal.RequireFromString("1.0")

func multiplierFor(table map[string]decimal.Decimal, code string) decimal.Decimal {
	if m, ok := table[code]; ok {
		return m
	}
	return one
}

// ComputeFinalValue derives the stored value of an owned kit.
//
// A non-nil, non-zero manual value always wins and is kept at its stored
// precision. Otherwise a positive base price is scaled by the size, condition
// and technology multipliers and rounded to 2 places; a zero or negative base
// price values the kit at 0.00.
func (ok *OwnedKit) ComputeFinalValue(basePrice decimal.Decimal) decimal.Decimal {
	if ok.ManualValue != nil && !ok.ManualValue.IsZero() {
		return *ok.ManualValue
	}
	if basePrice.IsPositive() {
		v := basePrice.
			Mul(multiplierFor(sizeMultipliers, ok.Size)).
			Mul(multiplierFor(conditionMultipliers, ok.Condition)).
			Mul(multiplierFor(technologyMultipliers, ok.ShirtTechnology))
		return v.Round(2)
	}
	return decimal.New(0, -2)
}

// RefreshFinalValue recomputes and overwrites FinalValue from the referenced
// kit's base price. Callers persist the result in the same write, so the
// stored value can never go stale relative to its inputs.
func (ok *OwnedKit) RefreshFinalValue() {
	var base decimal.Decimal
	if ok.Kit != nil {
		base = ok.Kit.EstimatedPrice
	}
	ok.FinalValue = ok.ComputeFinalValue(base)
}

// PopulateDisplays fills the human-readable labels for the category codes.
func (ok *OwnedKit) PopulateDisplays() {
	ok.ConditionDisplay = ConditionDisplay(ok.Condition)
	ok.TechnologyDisplay = TechnologyDisplay(ok.ShirtTechnology)
	ok.SizeDisplay = SizeDisplay(ok.Size)
}
