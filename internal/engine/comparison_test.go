package engine

import (
	"reflect"
	"testing"

	"github.com/yangwenmai/prodpage/internal/model"
)

func TestBuildFictionalProductB(t *testing.T) {
	f := ExtractFacts(testProduct())
	b := BuildFictionalProductB(f)

	if b.Name != "GlowBoost Vitamin C Serum (Fictional B)" {
		t.Errorf("Name = %q", b.Name)
	}
	if want := []string{"Vitamin C", "Hyaluronic Acid"}; !reflect.DeepEqual(b.Ingredients, want) {
		t.Errorf("Ingredients = %v, want %v (last dropped)", b.Ingredients, want)
	}
	if !reflect.DeepEqual(b.Benefits, f.Benefits) {
		t.Errorf("Benefits = %v, want same as A", b.Benefits)
	}
	if b.Price.Amount != 803.85 { // 699 * 1.15
		t.Errorf("Price.Amount = %v, want 803.85", b.Price.Amount)
	}
	if b.Price.Currency != "INR" {
		t.Errorf("Price.Currency = %q", b.Price.Currency)
	}
}

func TestBuildFictionalProductB_SingleIngredientKept(t *testing.T) {
	f := ExtractFacts(model.ProductRecord{
		Name:        "Mono",
		Ingredients: []string{"Water"},
	})
	b := BuildFictionalProductB(f)
	if len(b.Ingredients) != 1 || b.Ingredients[0] != "Water" {
		t.Errorf("Ingredients = %v, want the single ingredient kept", b.Ingredients)
	}
}

func TestBuildFictionalProductB_ZeroPrice(t *testing.T) {
	f := ExtractFacts(model.ProductRecord{Name: "Free"})
	b := BuildFictionalProductB(f)
	if b.Price.Amount != 0 {
		t.Errorf("Price.Amount = %v, want 0 for an unpriced product", b.Price.Amount)
	}
}

func TestBuildFictionalProductB_Rounding(t *testing.T) {
	f := ExtractFacts(model.ProductRecord{
		Name:  "X",
		Price: model.Price{Amount: 99.99, Currency: "USD"},
	})
	b := BuildFictionalProductB(f)
	if b.Price.Amount != 114.99 { // 99.99 * 1.15 = 114.9885
		t.Errorf("Price.Amount = %v, want 114.99", b.Price.Amount)
	}
}

func TestCompareProducts(t *testing.T) {
	f := ExtractFacts(testProduct())
	b := BuildFictionalProductB(f)
	report := CompareProducts(f, b)

	if report.Verdict != model.VerdictACheaper {
		t.Errorf("Verdict = %q, want %q", report.Verdict, model.VerdictACheaper)
	}

	ing := report.Aspect(model.AspectIngredients)
	if ing == nil {
		t.Fatal("missing ingredients aspect")
	}
	if want := []string{"Vitamin E"}; !reflect.DeepEqual(ing.AOnly, want) {
		t.Errorf("ingredients A_only = %v, want %v", ing.AOnly, want)
	}
	if len(ing.BOnly) != 0 {
		t.Errorf("ingredients B_only = %v, want empty", ing.BOnly)
	}
	if want := []string{"Vitamin C", "Hyaluronic Acid"}; !reflect.DeepEqual(ing.Common, want) {
		t.Errorf("ingredients common = %v, want %v", ing.Common, want)
	}

	price := report.Aspect(model.AspectPrice)
	if price == nil {
		t.Fatal("missing price aspect")
	}
	if want := []string{"A price: 699 INR"}; !reflect.DeepEqual(price.AOnly, want) {
		t.Errorf("price A_only = %v, want %v", price.AOnly, want)
	}
	if want := []string{"B price: 803.85 INR"}; !reflect.DeepEqual(price.BOnly, want) {
		t.Errorf("price B_only = %v, want %v", price.BOnly, want)
	}
	if want := []string{"currency: INR"}; !reflect.DeepEqual(price.Common, want) {
		t.Errorf("price common = %v, want %v", price.Common, want)
	}

	ben := report.Aspect(model.AspectBenefits)
	if ben == nil {
		t.Fatal("missing benefits aspect")
	}
	if len(ben.AOnly) != 0 || len(ben.BOnly) != 0 {
		t.Errorf("benefits diff = %v / %v, want both empty", ben.AOnly, ben.BOnly)
	}
	if !reflect.DeepEqual(ben.Common, f.Benefits) {
		t.Errorf("benefits common = %v, want %v", ben.Common, f.Benefits)
	}
}

func TestCompareProducts_CaseInsensitiveIngredients(t *testing.T) {
	f := ExtractFacts(model.ProductRecord{
		Name:        "A",
		Ingredients: []string{"vitamin c", "Niacinamide"},
	})
	b := model.FictionalProduct{
		Name:        "B",
		Ingredients: []string{"Vitamin C"},
	}
	report := CompareProducts(f, b)

	ing := report.Aspect(model.AspectIngredients)
	if want := []string{"vitamin c"}; !reflect.DeepEqual(ing.Common, want) {
		t.Errorf("common = %v, want %v (A's casing preserved)", ing.Common, want)
	}
	if want := []string{"Niacinamide"}; !reflect.DeepEqual(ing.AOnly, want) {
		t.Errorf("A_only = %v, want %v", ing.AOnly, want)
	}
	if len(ing.BOnly) != 0 {
		t.Errorf("B_only = %v, want empty", ing.BOnly)
	}
}

func TestPriceVerdict(t *testing.T) {
	tests := []struct {
		a, b float64
		want string
	}{
		{699, 803.85, model.VerdictACheaper},
		{803.85, 699, model.VerdictBCheaper},
		{100, 100, model.VerdictEqual},
		{0, 100, model.VerdictUnavailable},
		{100, 0, model.VerdictUnavailable},
		{0, 0, model.VerdictUnavailable},
	}
	for _, tt := range tests {
		if got := priceVerdict(tt.a, tt.b); got != tt.want {
			t.Errorf("priceVerdict(%v, %v) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareProducts_NoPrices(t *testing.T) {
	f := ExtractFacts(model.ProductRecord{Name: "Free"})
	report := CompareProducts(f, BuildFictionalProductB(f))

	if report.Verdict != model.VerdictUnavailable {
		t.Errorf("Verdict = %q, want %q", report.Verdict, model.VerdictUnavailable)
	}
	price := report.Aspect(model.AspectPrice)
	if len(price.AOnly) != 0 || len(price.BOnly) != 0 {
		t.Errorf("price entries = %v / %v, want both empty", price.AOnly, price.BOnly)
	}
}
