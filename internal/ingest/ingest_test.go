package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "product.json")
	data := `{"name": "GlowBoost", "price": {"amount": 699, "currency": "INR"}, "ingredients": ["Vitamin C"]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	p, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if p.Name != "GlowBoost" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Price.Amount != 699 {
		t.Errorf("Price.Amount = %v", p.Price.Amount)
	}
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestFromFile_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("not json"), 0o644)

	_, err := FromFile(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
