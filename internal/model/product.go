package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is assumed when the input record names no currency.
const DefaultCurrency = "INR"

// Price is a monetary amount with its ISO currency code.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// String formats the price as "amount currency", trimming trailing zeros.
func (p Price) String() string {
	return fmt.Sprintf("%v %s", p.Amount, p.Currency)
}

// ProductRecord is the normalized input to the pipeline. Missing fields
// degrade to zero values; ingestion never fails on absent data.
type ProductRecord struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       Price          `json:"price"`
	Ingredients []string       `json:"ingredients"`
	Benefits    []string       `json:"benefits"`
	HowToUse    string         `json:"how_to_use"`
	SideEffects string         `json:"side_effects"`
	Metadata    map[string]any `json:"metadata"`
}

// ProductFromJSON parses a product record, accepting the alias forms seen
// in the wild: name/title, description/summary, price as an object or a
// bare number, ingredients/key_ingredients, how_to_use/usage,
// side_effects/safety, and an optional {"product": {...}} wrapper.
// Only malformed JSON is an error.
func ProductFromJSON(data []byte) (ProductRecord, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ProductRecord{}, fmt.Errorf("parse product: %w", err)
	}
	if inner, ok := raw["product"].(map[string]any); ok {
		raw = inner
	}
	return productFromMap(raw), nil
}

func productFromMap(raw map[string]any) ProductRecord {
	p := ProductRecord{
		ID:          firstString(raw, "id", "product_id"),
		Name:        firstString(raw, "name", "title"),
		Description: firstString(raw, "description", "summary"),
		Ingredients: firstStringList(raw, "ingredients", "key_ingredients"),
		Benefits:    firstStringList(raw, "benefits"),
		HowToUse:    firstString(raw, "how_to_use", "usage"),
		SideEffects: firstString(raw, "side_effects", "safety"),
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	switch v := raw["price"].(type) {
	case map[string]any:
		p.Price.Amount = toFloat(v["amount"])
		p.Price.Currency, _ = v["currency"].(string)
	default:
		p.Price.Amount = toFloat(v)
		p.Price.Currency, _ = raw["currency"].(string)
	}
	if p.Price.Currency == "" {
		p.Price.Currency = DefaultCurrency
	}

	if md, ok := raw["metadata"].(map[string]any); ok {
		p.Metadata = md
	} else {
		p.Metadata = map[string]any{}
	}
	if _, ok := p.Metadata["ingested_at"]; !ok {
		p.Metadata["ingested_at"] = time.Now().UTC().Format(time.RFC3339)
	}
	return p
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstStringList(raw map[string]any, keys ...string) []string {
	for _, k := range keys {
		list, ok := raw[k].([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(list))
		for _, v := range list {
			out = append(out, fmt.Sprintf("%v", v))
		}
		return out
	}
	return nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}
