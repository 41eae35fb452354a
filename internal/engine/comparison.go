package engine

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/yangwenmai/prodpage/internal/model"
)

// fictionalMarkup is the price markup applied to the derived product B.
const fictionalMarkup = 1.15

// BuildFictionalProductB derives a fictional second product from the
// facts alone: same benefits, the ingredient list minus its last element
// (at least one kept when the source has any), and the price scaled by
// fictionalMarkup.
func BuildFictionalProductB(f *model.Facts) model.FictionalProduct {
	keep := len(f.Ingredients) - 1
	if keep < 1 {
		keep = len(f.Ingredients)
	}

	b := model.FictionalProduct{
		Name:        fmt.Sprintf("%s (Fictional B)", productName(f)),
		Ingredients: slices.Clone(f.Ingredients[:keep]),
		Benefits:    slices.Clone(f.Benefits),
		Price:       model.Price{Currency: f.Price.Currency},
	}
	if f.Price.Amount > 0 {
		b.Price.Amount = round2(f.Price.Amount * fictionalMarkup)
	}
	return b
}

// CompareProducts computes the structured diff between the facts (product
// A) and the fictional product B. Ingredient matching is case-insensitive
// but each side's original casing is preserved in the output. Benefits
// compare case-sensitively, keeping each side's order.
func CompareProducts(f *model.Facts, b model.FictionalProduct) *model.ComparisonReport {
	common, aOnly, bOnly := diffCaseInsensitive(f.Ingredients, b.Ingredients)

	verdict := priceVerdict(f.Price.Amount, b.Price.Amount)

	var priceA, priceB []string
	if f.Price.Amount > 0 {
		priceA = []string{"A price: " + f.Price.String()}
	}
	if b.Price.Amount > 0 {
		priceB = []string{"B price: " + b.Price.String()}
	}

	return &model.ComparisonReport{
		ProductA: model.ComparisonProduct{
			Name:        f.Name,
			Price:       f.Price,
			Ingredients: slices.Clone(f.Ingredients),
			Benefits:    slices.Clone(f.Benefits),
		},
		ProductB: model.ComparisonProduct{
			Name:        b.Name,
			Price:       b.Price,
			Ingredients: slices.Clone(b.Ingredients),
			Benefits:    slices.Clone(b.Benefits),
		},
		Comparisons: []model.ComparisonAspect{
			{
				Aspect: model.AspectIngredients,
				AOnly:  aOnly,
				BOnly:  bOnly,
				Common: common,
			},
			{
				Aspect: model.AspectPrice,
				AOnly:  priceA,
				BOnly:  priceB,
				Common: []string{fmt.Sprintf("currency: %s", f.Price.Currency)},
			},
			{
				Aspect: model.AspectBenefits,
				AOnly:  listOnly(f.Benefits, b.Benefits),
				BOnly:  listOnly(b.Benefits, f.Benefits),
				Common: listCommon(f.Benefits, b.Benefits),
			},
		},
		Verdict: verdict,
	}
}

// priceVerdict picks the verdict from the two final amounts. A missing or
// zero price on either side makes the comparison unavailable.
func priceVerdict(amountA, amountB float64) string {
	switch {
	case amountA <= 0 || amountB <= 0:
		return model.VerdictUnavailable
	case amountA < amountB:
		return model.VerdictACheaper
	case amountA > amountB:
		return model.VerdictBCheaper
	default:
		return model.VerdictEqual
	}
}

// diffCaseInsensitive splits two ingredient lists into common/A-only/B-only
// sets matched on folded names, restoring each source's casing.
func diffCaseInsensitive(a, b []string) (common, aOnly, bOnly []string) {
	setA := foldedSet(a)
	setB := foldedSet(b)

	common = []string{}
	aOnly = []string{}
	bOnly = []string{}
	for _, v := range a {
		if setB[strings.ToLower(v)] {
			common = append(common, v)
		} else {
			aOnly = append(aOnly, v)
		}
	}
	for _, v := range b {
		if !setA[strings.ToLower(v)] {
			bOnly = append(bOnly, v)
		}
	}
	return common, aOnly, bOnly
}

func foldedSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, v := range list {
		set[strings.ToLower(v)] = true
	}
	return set
}

func listOnly(from, other []string) []string {
	out := []string{}
	for _, v := range from {
		if !slices.Contains(other, v) {
			out = append(out, v)
		}
	}
	return out
}

func listCommon(from, other []string) []string {
	out := []string{}
	for _, v := range from {
		if slices.Contains(other, v) {
			out = append(out, v)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
