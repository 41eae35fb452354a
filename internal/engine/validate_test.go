package engine

import (
	"testing"

	"github.com/yangwenmai/prodpage/internal/model"
)

func completeArtifacts(t *testing.T) (*model.ProductPage, []model.FAQItem, *model.ComparisonReport) {
	t.Helper()
	f := ExtractFacts(testProduct())
	page, err := ComposePage(f)
	if err != nil {
		t.Fatalf("ComposePage: %v", err)
	}
	faq := RenderFAQ(GenerateQuestions(f), f)
	report := CompareProducts(f, BuildFictionalProductB(f))
	return page, faq, report
}

func TestValidateArtifacts_Complete(t *testing.T) {
	page, faq, report := completeArtifacts(t)
	ok, reasons := ValidateArtifacts(page, faq, report)
	if !ok {
		t.Fatalf("valid = false, reasons = %v", reasons)
	}
	if len(reasons) != 0 {
		t.Errorf("reasons = %v, want none", reasons)
	}
}

func TestValidateArtifacts_MissingPage(t *testing.T) {
	_, faq, report := completeArtifacts(t)
	ok, reasons := ValidateArtifacts(nil, faq, report)
	if ok {
		t.Fatal("valid = true, want false")
	}
	if len(reasons) != 1 || reasons[0] != "Missing product_page" {
		t.Errorf("reasons = %v", reasons)
	}
}

func TestValidateArtifacts_ShortFAQ(t *testing.T) {
	page, faq, report := completeArtifacts(t)
	ok, reasons := ValidateArtifacts(page, faq[:MinQuestions-1], report)
	if ok {
		t.Fatal("valid = true, want false")
	}
	if len(reasons) != 1 || reasons[0] != "FAQ missing or < 15 items" {
		t.Errorf("reasons = %v", reasons)
	}
}

func TestValidateArtifacts_AccumulatesReasons(t *testing.T) {
	ok, reasons := ValidateArtifacts(nil, nil, nil)
	if ok {
		t.Fatal("valid = true, want false")
	}
	if len(reasons) != 3 {
		t.Fatalf("reasons = %v, want all three", reasons)
	}
}
