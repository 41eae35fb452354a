package engine

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/yangwenmai/prodpage/internal/model"
)

func TestGenerateQuestions_MinimumCount(t *testing.T) {
	f := ExtractFacts(testProduct())
	qs := GenerateQuestions(f)
	if len(qs) < MinQuestions {
		t.Fatalf("questions = %d, want >= %d", len(qs), MinQuestions)
	}
}

func TestGenerateQuestions_EmptyFactsStillReachMinimum(t *testing.T) {
	f := ExtractFacts(model.ProductRecord{})
	qs := GenerateQuestions(f)
	if len(qs) < MinQuestions {
		t.Fatalf("questions for empty facts = %d, want >= %d", len(qs), MinQuestions)
	}
}

func TestGenerateQuestions_Deterministic(t *testing.T) {
	f := ExtractFacts(testProduct())
	a := GenerateQuestions(f)
	b := GenerateQuestions(f)
	if !reflect.DeepEqual(a, b) {
		t.Error("same facts must produce the same question set")
	}
}

func TestGenerateQuestions_SequentialIDs(t *testing.T) {
	qs := GenerateQuestions(ExtractFacts(testProduct()))
	for i, q := range qs {
		if q.ID != strconv.Itoa(i+1) {
			t.Errorf("question %d has ID %q, want %q", i, q.ID, strconv.Itoa(i+1))
		}
	}
}

func TestGenerateQuestions_IngredientCap(t *testing.T) {
	p := testProduct()
	p.Ingredients = []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	qs := GenerateQuestions(ExtractFacts(p))

	count := 0
	for _, q := range qs {
		if q.Category == model.CategoryIngredients {
			count++
		}
	}
	if count > maxIngredientQuestions {
		t.Errorf("ingredient questions = %d, want <= %d", count, maxIngredientQuestions)
	}
}

func TestGenerateQuestions_MaxCap(t *testing.T) {
	p := testProduct()
	p.Ingredients = []string{"A", "B", "C", "D", "E", "F"}
	p.Benefits = []string{"b1", "b2", "b3", "b4", "b5"}
	qs := GenerateQuestions(ExtractFacts(p))
	if len(qs) > MaxQuestions {
		t.Errorf("questions = %d, want <= %d", len(qs), MaxQuestions)
	}
}

func TestGenerateQuestions_SkipsAbsentFacts(t *testing.T) {
	qs := GenerateQuestions(ExtractFacts(model.ProductRecord{Name: "X"}))
	for _, q := range qs {
		if q.Question == "What is the product ID?" {
			t.Error("ID question generated for a record without an ID")
		}
		if q.Question == "What is the price of the product?" {
			t.Error("price question generated for a record without a price")
		}
	}
}

func TestGenerateQuestions_CategoriesValid(t *testing.T) {
	valid := map[string]bool{
		model.CategoryInformational: true,
		model.CategoryPricing:       true,
		model.CategoryIngredients:   true,
		model.CategoryBenefits:      true,
		model.CategoryUsage:         true,
		model.CategorySafety:        true,
		model.CategoryMetadata:      true,
	}
	for _, q := range GenerateQuestions(ExtractFacts(testProduct())) {
		if !valid[q.Category] {
			t.Errorf("question %q has unknown category %q", q.Question, q.Category)
		}
	}
}
