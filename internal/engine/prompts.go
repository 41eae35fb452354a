package engine

import (
	"encoding/json"
	"fmt"

	"github.com/yangwenmai/prodpage/internal/model"
)

func buildPagePrompt(f *model.Facts) string {
	return fmt.Sprintf(`You are a product content generator. Build a product page from the facts below.

Output ONLY valid JSON with this exact structure (no markdown, no explanation).
DO NOT change keys. If a detail is missing, use an empty string.

{"product_id": "", "title": "", "metadata": {"source": "", "ingested_at": ""}, "summary_block": {"title": "Summary", "text": ""}, "ingredients_block": [{"name": "", "description": ""}], "benefits_block": [{"benefit": "", "details": ""}], "usage_block": {"title": "Usage Instructions", "text": ""}, "safety_block": {"title": "Safety Information", "text": ""}, "price_block": {"amount": 0, "currency": ""}}

Rules:
- title must equal the product name from the facts
- Use ONLY the facts; never invent product details

facts_json:
%s`, mustJSON(f))
}

func buildFAQPrompt(f *model.Facts) string {
	return fmt.Sprintf(`You are a product FAQ writer. Generate AT LEAST 15 FAQs as a JSON ARRAY.

Output ONLY valid JSON with this exact item structure:
[{"id": "1", "category": "Informational", "question": "What is the name of the product?", "answer": ""}]

Rules:
- category: one of "Informational", "Pricing", "Ingredients", "Benefits", "Usage", "Safety", "Metadata"
- Answer using ONLY the facts below; if unknown, use an empty string
- ids are sequential decimal strings starting at "1"
- Cover name, description, price, ingredients, benefits, usage and safety

facts_json:
%s`, mustJSON(f))
}

func buildComparisonPrompt(f *model.Facts) string {
	return fmt.Sprintf(`You are a product comparison writer. Produce STRICT JSON comparing product_A (the facts below) with a fictional product_B.

Rules:
- product_B.name = product_A.name + " (Fictional B)"
- product_B.ingredients = product_A.ingredients except the last one
- product_B.price.amount = round(product_A.price.amount * 1.15, 2)
- product_B.price.currency = product_A.price.currency
- product_B.benefits = product_A.benefits

Output ONLY this JSON structure:
{"product_A": {"name": "", "price": {"amount": 0, "currency": ""}, "ingredients": [], "benefits": []}, "product_B": {"name": "", "price": {"amount": 0, "currency": ""}, "ingredients": [], "benefits": []}, "comparisons": [{"aspect": "ingredients", "A_only": [], "B_only": [], "common": []}, {"aspect": "price", "A_only": [], "B_only": [], "common": []}, {"aspect": "benefits", "A_only": [], "B_only": [], "common": []}], "verdict": ""}

facts_json:
%s`, mustJSON(f))
}

// mustJSON marshals v to a JSON string. It panics on error because callers
// only pass known struct types that are guaranteed to be serializable.
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("engine: json.Marshal failed on known type: %v", err))
	}
	return string(b)
}
