package model

// Facts is the flattened, read-only projection of a ProductRecord that all
// generators consume. It is built once per run and reused across retries;
// only generated artifacts are discarded between attempts.
//
// The schema is fixed so missing-field bugs surface at compile time; the
// Metadata map remains open for truly unstructured extras.
type Facts struct {
	ProductID       string         `json:"product_id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Price           Price          `json:"price"`
	Ingredients     []string       `json:"ingredients"`
	Benefits        []string       `json:"benefits"`
	HowToUse        string         `json:"how_to_use"`
	SideEffects     string         `json:"side_effects"`
	Metadata        map[string]any `json:"metadata"`
	IngredientCount int            `json:"ingredient_count"`
	BenefitCount    int            `json:"benefit_count"`
}

// MetadataString returns the named metadata entry as a string, or "" when
// absent or of a non-string type.
func (f *Facts) MetadataString(key string) string {
	if f.Metadata == nil {
		return ""
	}
	s, _ := f.Metadata[key].(string)
	return s
}
