// Package render persists pipeline artifacts as JSON documents.
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yangwenmai/prodpage/internal/model"
)

// Output file names.
const (
	PageFile       = "product_page.json"
	FAQFile        = "faq.json"
	ComparisonFile = "comparison_page.json"
)

// WriteOutputs writes the three artifacts to outdir, creating it as
// needed. Callers invoke it exactly once per run, after the final state
// is known; partial artifact sets are never written.
func WriteOutputs(page *model.ProductPage, faq []model.FAQItem, comparison *model.ComparisonReport, outdir string) error {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return fmt.Errorf("create outdir: %w", err)
	}
	if err := writeJSON(page, filepath.Join(outdir, PageFile)); err != nil {
		return err
	}
	if err := writeJSON(faq, filepath.Join(outdir, FAQFile)); err != nil {
		return err
	}
	return writeJSON(comparison, filepath.Join(outdir, ComparisonFile))
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
