// Package ingest reads product records from files and optionally enriches
// them from their source page.
package ingest

import (
	"fmt"
	"os"

	"github.com/yangwenmai/prodpage/internal/model"
)

// FromFile reads a product JSON file and normalizes it into a
// ProductRecord. A missing file or malformed JSON is fatal; missing
// product fields are not.
func FromFile(path string) (model.ProductRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ProductRecord{}, fmt.Errorf("read input: %w", err)
	}
	product, err := model.ProductFromJSON(data)
	if err != nil {
		return model.ProductRecord{}, fmt.Errorf("ingest %s: %w", path, err)
	}
	return product, nil
}
