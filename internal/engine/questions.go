package engine

import (
	"fmt"
	"strconv"

	"github.com/yangwenmai/prodpage/internal/model"
)

const (
	// MinQuestions is the minimum size of a generated question set.
	MinQuestions = 15
	// MaxQuestions caps the question set; 0 means unlimited.
	MaxQuestions = 15

	// maxIngredientQuestions caps per-ingredient questions.
	maxIngredientQuestions = 5
	// maxBenefitQuestions caps per-benefit questions.
	maxBenefitQuestions = 3
)

// paddingBank is the ordered template bank used to reach MinQuestions when
// the facts carry too little material. It must be large enough to reach
// the minimum even when the facts hold no ingredients and no benefits.
var paddingBank = []model.Question{
	{Category: model.CategoryInformational, Question: "How many ingredients does the product contain?"},
	{Category: model.CategoryBenefits, Question: "How many benefits does the product offer?"},
	{Category: model.CategoryInformational, Question: "What percentage of the active ingredient does the product contain?"},
	{Category: model.CategoryMetadata, Question: "What is the metadata source of the product information?"},
	{Category: model.CategoryMetadata, Question: "When was the product information ingested?"},
	{Category: model.CategoryUsage, Question: "When is the recommended time to apply the product?"},
	{Category: model.CategorySafety, Question: "What precaution is suggested before using the product?"},
	{Category: model.CategoryUsage, Question: "How often should the product be applied?"},
	{Category: model.CategoryPricing, Question: "In which currency is the product priced?"},
	{Category: model.CategoryInformational, Question: "What type of product is this?"},
	{Category: model.CategorySafety, Question: "Is the product suitable for sensitive skin?"},
}

// GenerateQuestions derives the question set for one pipeline run. The
// output is fully determined by the facts: same facts, same questions in
// the same order. The result always holds at least MinQuestions entries.
func GenerateQuestions(f *model.Facts) []model.Question {
	return generateQuestions(f, MinQuestions, MaxQuestions)
}

func generateQuestions(f *model.Facts, minCount, maxCount int) []model.Question {
	var qs []model.Question
	add := func(category, text, rationale string) {
		qs = append(qs, model.Question{
			ID:        strconv.Itoa(len(qs) + 1),
			Category:  category,
			Question:  text,
			Rationale: rationale,
		})
	}

	// Always-present prefix.
	add(model.CategoryInformational, "What is the name of the product?", "basic info")
	if f.ProductID != "" {
		add(model.CategoryInformational, "What is the product ID?", "product identification")
	}
	add(model.CategoryInformational, "What is the description of the product?", "description")
	if f.Price.Amount > 0 {
		add(model.CategoryPricing, "What is the price of the product?", "purchase decision")
	}

	// Ingredient-specific questions, capped.
	for i, ing := range f.Ingredients {
		if i >= maxIngredientQuestions {
			break
		}
		if i == 0 {
			add(model.CategoryIngredients, "What ingredients are present in the product?", "ingredient check")
		} else {
			add(model.CategoryIngredients, fmt.Sprintf("Does the product contain %s?", ing), "ingredient check")
		}
	}

	// Benefit-specific questions, capped.
	for i, b := range f.Benefits {
		if i >= maxBenefitQuestions {
			break
		}
		if i == 0 {
			add(model.CategoryBenefits, "What are the benefits of using the product?", "benefit clarification")
		} else {
			add(model.CategoryBenefits, fmt.Sprintf("What benefit does the product provide for %s?", b), "benefit clarification")
		}
	}

	add(model.CategoryUsage, "How should the product be used?", "usage guidance")
	add(model.CategorySafety, "Are there any side effects associated with this product?", "safety check")

	// Pad from the template bank until the minimum is reached.
	for _, tmpl := range paddingBank {
		if len(qs) >= minCount {
			break
		}
		add(tmpl.Category, tmpl.Question, "template")
	}

	if maxCount > 0 && len(qs) > maxCount {
		qs = qs[:maxCount]
	}
	return qs
}
