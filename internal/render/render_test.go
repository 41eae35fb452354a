package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/yangwenmai/prodpage/internal/model"
)

func TestWriteOutputs(t *testing.T) {
	outdir := filepath.Join(t.TempDir(), "nested", "out")

	page := &model.ProductPage{ProductID: "p-1", Title: "GlowBoost"}
	faq := []model.FAQItem{{ID: "1", Question: "Q?", Answer: "A."}}
	comparison := &model.ComparisonReport{Verdict: model.VerdictACheaper}

	if err := WriteOutputs(page, faq, comparison, outdir); err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}

	var gotPage model.ProductPage
	readJSON(t, filepath.Join(outdir, PageFile), &gotPage)
	if gotPage.Title != "GlowBoost" {
		t.Errorf("page title = %q", gotPage.Title)
	}

	var gotFAQ []model.FAQItem
	readJSON(t, filepath.Join(outdir, FAQFile), &gotFAQ)
	if len(gotFAQ) != 1 || gotFAQ[0].Answer != "A." {
		t.Errorf("faq = %+v", gotFAQ)
	}

	var gotCmp model.ComparisonReport
	readJSON(t, filepath.Join(outdir, ComparisonFile), &gotCmp)
	if gotCmp.Verdict != model.VerdictACheaper {
		t.Errorf("verdict = %q", gotCmp.Verdict)
	}
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshal %s: %v", path, err)
	}
}
