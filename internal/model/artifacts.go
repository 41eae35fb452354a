package model

// Question category constants. Every generated question carries one of
// these labels.
const (
	CategoryInformational = "Informational"
	CategoryPricing       = "Pricing"
	CategoryIngredients   = "Ingredients"
	CategoryBenefits      = "Benefits"
	CategoryUsage         = "Usage"
	CategorySafety        = "Safety"
	CategoryMetadata      = "Metadata"
)

// Question is one deterministically generated product question.
// IDs are sequential decimal strings ("1", "2", ...).
type Question struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Question  string `json:"question"`
	Rationale string `json:"rationale"`
}

// FAQItem is a Question paired with its rendered answer.
// The answer is never empty: when no rule matches, a conservative
// fallback is substituted.
type FAQItem struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TextBlock is a titled prose block (summary, usage, safety).
type TextBlock struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// IngredientEntry is one row of the ingredients block.
type IngredientEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BenefitEntry is one row of the benefits block.
type BenefitEntry struct {
	Benefit string `json:"benefit"`
	Details string `json:"details"`
}

// ProductPage is the composed product-page document. It is considered
// complete only when Title is non-empty.
type ProductPage struct {
	ProductID        string            `json:"product_id"`
	Title            string            `json:"title"`
	Metadata         map[string]any    `json:"metadata"`
	SummaryBlock     TextBlock         `json:"summary_block"`
	IngredientsBlock []IngredientEntry `json:"ingredients_block"`
	BenefitsBlock    []BenefitEntry    `json:"benefits_block"`
	UsageBlock       TextBlock         `json:"usage_block"`
	SafetyBlock      TextBlock         `json:"safety_block"`
	PriceBlock       Price             `json:"price_block"`
}

// FictionalProduct is the derived "product B" used for comparison.
// It is computed from Facts alone.
type FictionalProduct struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Benefits    []string `json:"benefits"`
	Price       Price    `json:"price"`
}

// ComparisonProduct is one side of the comparison report.
type ComparisonProduct struct {
	Name        string   `json:"name"`
	Price       Price    `json:"price"`
	Ingredients []string `json:"ingredients"`
	Benefits    []string `json:"benefits"`
}

// ComparisonAspect holds the three-way split for one compared aspect.
type ComparisonAspect struct {
	Aspect string   `json:"aspect"`
	AOnly  []string `json:"A_only"`
	BOnly  []string `json:"B_only"`
	Common []string `json:"common"`
}

// Comparison aspect names.
const (
	AspectIngredients = "ingredients"
	AspectPrice       = "price"
	AspectBenefits    = "benefits"
)

// Verdict strings. The verdict is always recomputed from the final price
// amounts, never taken from generated output.
const (
	VerdictACheaper    = "Product A is cheaper"
	VerdictBCheaper    = "Product B is cheaper"
	VerdictEqual       = "Both priced equally"
	VerdictUnavailable = "Price comparison unavailable"
)

// ComparisonReport is the full comparison artifact.
type ComparisonReport struct {
	ProductA    ComparisonProduct  `json:"product_A"`
	ProductB    ComparisonProduct  `json:"product_B"`
	Comparisons []ComparisonAspect `json:"comparisons"`
	Verdict     string             `json:"verdict"`
}

// Aspect returns the aspect with the given name, or nil.
func (r *ComparisonReport) Aspect(name string) *ComparisonAspect {
	for i := range r.Comparisons {
		if r.Comparisons[i].Aspect == name {
			return &r.Comparisons[i]
		}
	}
	return nil
}
