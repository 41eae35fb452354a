package engine

import (
	"maps"
	"slices"

	"github.com/yangwenmai/prodpage/internal/model"
)

// ExtractFacts projects a ProductRecord into the flat facts bag consumed
// by every generator. It is a pure function: list and map fields are
// copied so later mutation of derived structures cannot corrupt the
// source record.
func ExtractFacts(p model.ProductRecord) *model.Facts {
	f := &model.Facts{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Ingredients: slices.Clone(p.Ingredients),
		Benefits:    slices.Clone(p.Benefits),
		HowToUse:    p.HowToUse,
		SideEffects: p.SideEffects,
		Metadata:    maps.Clone(p.Metadata),
	}
	if f.Ingredients == nil {
		f.Ingredients = []string{}
	}
	if f.Benefits == nil {
		f.Benefits = []string{}
	}
	if f.Metadata == nil {
		f.Metadata = map[string]any{}
	}
	f.IngredientCount = len(f.Ingredients)
	f.BenefitCount = len(f.Benefits)
	return f
}

// SanityCheck inspects a record for advisory issues. The returned
// diagnostics never block the pipeline.
func SanityCheck(p model.ProductRecord) []string {
	var issues []string
	if p.Name == "" {
		issues = append(issues, "missing_name")
	}
	if p.Price.Amount == 0 {
		issues = append(issues, "missing_price")
	}
	if len(p.Benefits) == 0 {
		issues = append(issues, "no_benefits_listed")
	}
	if p.Price.Amount < 0 {
		issues = append(issues, "negative_price")
	}
	return issues
}
