package engine

import (
	"fmt"
	"strings"

	"github.com/yangwenmai/prodpage/internal/model"
)

// maxSummaryRunes caps the summary block text.
const maxSummaryRunes = 280

// ComposePage assembles a product page from independent block projections
// of the facts. An empty title makes the page structurally incomplete and
// is reported via ErrIncomplete so the caller can fall back to the
// external generator.
func ComposePage(f *model.Facts) (*model.ProductPage, error) {
	page := &model.ProductPage{
		ProductID:        f.ProductID,
		Title:            f.Name,
		Metadata:         f.Metadata,
		SummaryBlock:     summaryBlock(f),
		IngredientsBlock: ingredientsBlock(f),
		BenefitsBlock:    benefitsBlock(f),
		UsageBlock:       usageBlock(f),
		SafetyBlock:      safetyBlock(f),
		PriceBlock:       f.Price,
	}
	if page.Title == "" {
		return nil, fmt.Errorf("%w: product page has no title", ErrIncomplete)
	}
	return page, nil
}

func summaryBlock(f *model.Facts) model.TextBlock {
	summary := f.Description
	if summary == "" {
		if len(f.Benefits) > 0 {
			summary = fmt.Sprintf("%s — %s", f.Name, strings.Join(f.Benefits[:min(len(f.Benefits), 3)], ", "))
		} else {
			summary = f.Name
		}
	}
	if runes := []rune(summary); len(runes) > maxSummaryRunes {
		summary = string(runes[:maxSummaryRunes-3]) + "..."
	}
	return model.TextBlock{Title: "Summary", Text: summary}
}

func ingredientsBlock(f *model.Facts) []model.IngredientEntry {
	entries := make([]model.IngredientEntry, 0, len(f.Ingredients))
	for _, ing := range f.Ingredients {
		entries = append(entries, model.IngredientEntry{Name: ing})
	}
	return entries
}

func benefitsBlock(f *model.Facts) []model.BenefitEntry {
	entries := make([]model.BenefitEntry, 0, len(f.Benefits))
	for _, b := range f.Benefits {
		entries = append(entries, model.BenefitEntry{Benefit: b})
	}
	return entries
}

func usageBlock(f *model.Facts) model.TextBlock {
	text := f.HowToUse
	if text == "" {
		text = "Follow product label instructions."
	}
	return model.TextBlock{Title: "Usage Instructions", Text: text}
}

func safetyBlock(f *model.Facts) model.TextBlock {
	text := f.SideEffects
	if text == "" {
		text = "No common side effects listed; patch test recommended."
	}
	return model.TextBlock{Title: "Safety Information", Text: text}
}
