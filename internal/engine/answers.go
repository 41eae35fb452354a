package engine

import (
	"fmt"
	"strings"

	"github.com/yangwenmai/prodpage/internal/model"
)

// RenderFAQ answers every question against the facts. Answers are derived
// by a prioritized pattern match over the lowercased question text; the
// result is never empty.
func RenderFAQ(questions []model.Question, f *model.Facts) []model.FAQItem {
	items := make([]model.FAQItem, 0, len(questions))
	for _, q := range questions {
		items = append(items, model.FAQItem{
			ID:       q.ID,
			Category: q.Category,
			Question: q.Question,
			Answer:   answerFor(q.Question, f),
		})
	}
	return items
}

// answerFor maps a question to its answer. Rules are evaluated top to
// bottom and the first match wins, so more specific patterns (percentage,
// counts) must stay above the general ones (ingredients, benefits) they
// would otherwise be shadowed by.
func answerFor(question string, f *model.Facts) string {
	q := strings.ToLower(question)

	switch {
	case strings.Contains(q, "percentage"):
		if c := f.MetadataString("concentration"); c != "" {
			return fmt.Sprintf("The product contains %s of the active ingredient.", c)
		}
		return fallbackAnswer(f)

	case strings.Contains(q, "how many ingredients"):
		return fmt.Sprintf("The product lists %d ingredients.", f.IngredientCount)

	case strings.Contains(q, "how many benefits"):
		return fmt.Sprintf("The product offers %d benefits.", f.BenefitCount)

	case strings.Contains(q, "name of the product") && f.Name != "":
		return fmt.Sprintf("The product is called %s.", f.Name)

	case strings.Contains(q, "product id") && f.ProductID != "":
		return fmt.Sprintf("The product ID is %s.", f.ProductID)

	case strings.Contains(q, "description") || strings.Contains(q, "type of product"):
		if f.Description != "" {
			return f.Description
		}
		return fallbackAnswer(f)

	case strings.Contains(q, "currency"):
		return fmt.Sprintf("Prices are listed in %s.", f.Price.Currency)

	case strings.Contains(q, "price"):
		if f.Price.Amount > 0 {
			return fmt.Sprintf("The listed price is %s.", f.Price.String())
		}
		return "Price information is not available for this product."

	case strings.Contains(q, "contain") || strings.Contains(q, "ingredient"):
		for _, ing := range f.Ingredients {
			if strings.Contains(q, strings.ToLower(ing)) {
				return fmt.Sprintf("Yes, %s contains %s.", productName(f), ing)
			}
		}
		if len(f.Ingredients) > 0 {
			return fmt.Sprintf("%s contains: %s.", productName(f), strings.Join(f.Ingredients, ", "))
		}
		return "No ingredient list available."

	case strings.Contains(q, "benefit"):
		for _, b := range f.Benefits {
			if strings.Contains(q, strings.ToLower(b)) {
				return fmt.Sprintf("%s helps with %s.", productName(f), b)
			}
		}
		if len(f.Benefits) > 0 {
			return fmt.Sprintf("Benefits of %s: %s.", productName(f), strings.Join(f.Benefits, ", "))
		}
		return "No benefits listed for this product."

	case strings.Contains(q, "how should") || strings.Contains(q, "how do i use") || strings.Contains(q, "how often"):
		if f.HowToUse != "" {
			return f.HowToUse
		}
		return "Follow product label instructions."

	case strings.Contains(q, "ingested"):
		if t := f.MetadataString("ingested_at"); t != "" {
			return fmt.Sprintf("The product information was ingested at %s.", t)
		}
		return "Ingestion time is not recorded."

	case strings.Contains(q, "when") && (strings.Contains(q, "apply") || strings.Contains(q, "use")):
		if f.HowToUse != "" {
			return f.HowToUse
		}
		return "Apply as part of your morning or evening routine."

	case strings.Contains(q, "source") || strings.Contains(q, "metadata"):
		if s := f.MetadataString("source"); s != "" {
			return fmt.Sprintf("The product information comes from %s.", s)
		}
		return "The product information was provided by the manufacturer."

	case strings.Contains(q, "side effect") || strings.Contains(q, "safe") ||
		strings.Contains(q, "irritation") || strings.Contains(q, "precaution") ||
		strings.Contains(q, "sensitive"):
		if f.SideEffects != "" {
			return f.SideEffects
		}
		return "Patch test recommended for sensitive skin."
	}

	return fallbackAnswer(f)
}

// fallbackAnswer is the conservative answer used when no rule applies:
// the description, else a one-line sentence built from the facts.
func fallbackAnswer(f *model.Facts) string {
	if f.Description != "" {
		return f.Description
	}
	if f.Name != "" && len(f.Benefits) > 0 {
		n := min(len(f.Benefits), 2)
		return fmt.Sprintf("%s is a product for %s.", f.Name, strings.Join(f.Benefits[:n], ", "))
	}
	return "Please refer to the product label for details."
}

func productName(f *model.Facts) string {
	if f.Name != "" {
		return f.Name
	}
	return "The product"
}
