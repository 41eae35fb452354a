package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/yangwenmai/prodpage/internal/model"
)

// collaboratorAttempts bounds how often the collaborator re-invokes the
// model when it returns unparsable or schema-invalid output.
const collaboratorAttempts = 3

// Collaborator is the LLM-backed fallback Generator. It grounds every
// prompt in the facts JSON, repairs sloppy model output (code fences,
// leading prose), validates the parsed artifact against the same shape
// constraints as the deterministic path, and retries a bounded number of
// times before giving up.
type Collaborator struct {
	model    ModelClient
	attempts int
}

var _ Generator = (*Collaborator)(nil)

// NewCollaborator wraps a model client as the fallback Generator.
func NewCollaborator(mc ModelClient) *Collaborator {
	return &Collaborator{model: mc, attempts: collaboratorAttempts}
}

// GeneratePage asks the model for a product page and validates it the way
// ComposePage validates its own output: a page without a title is invalid.
func (c *Collaborator) GeneratePage(ctx context.Context, facts *model.Facts) (*model.ProductPage, error) {
	var page *model.ProductPage
	err := c.invoke(ctx, "page", buildPagePrompt(facts), func(payload []byte) error {
		var p model.ProductPage
		if err := json.Unmarshal(payload, &p); err != nil {
			return err
		}
		if p.Title == "" {
			return fmt.Errorf("generated page has no title")
		}
		page = &p
		return nil
	})
	return page, err
}

// GenerateFAQ asks the model for the FAQ list, then sanitizes it: items
// without a question are dropped, empty answers are filled from the
// deterministic answer rules, and the set is padded from the question
// bank up to the minimum. The result always holds MinQuestions well-formed
// items with non-empty answers.
func (c *Collaborator) GenerateFAQ(ctx context.Context, facts *model.Facts) ([]model.FAQItem, error) {
	var faq []model.FAQItem
	err := c.invoke(ctx, "faq", buildFAQPrompt(facts), func(payload []byte) error {
		var items []model.FAQItem
		if err := json.Unmarshal(payload, &items); err != nil {
			return err
		}
		faq = sanitizeFAQ(items, facts)
		return nil
	})
	return faq, err
}

// GenerateComparison asks the model for the comparison report. The price
// aspect and the verdict are never trusted from model output: both are
// recomputed from the parsed amounts.
func (c *Collaborator) GenerateComparison(ctx context.Context, facts *model.Facts) (*model.ComparisonReport, error) {
	var report *model.ComparisonReport
	err := c.invoke(ctx, "comparison", buildComparisonPrompt(facts), func(payload []byte) error {
		var r model.ComparisonReport
		if err := json.Unmarshal(payload, &r); err != nil {
			return err
		}
		if r.ProductA.Name == "" && r.ProductB.Name == "" {
			return fmt.Errorf("generated comparison names no products")
		}
		repairComparison(&r)
		report = &r
		return nil
	})
	return report, err
}

// invoke runs the prompt/parse/validate loop. A model transport error
// propagates immediately (the clients handle their own transient retry);
// unparsable or invalid output is retried up to c.attempts times.
func (c *Collaborator) invoke(ctx context.Context, kind, prompt string, accept func([]byte) error) error {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		raw, err := c.model.Complete(ctx, prompt)
		if err != nil {
			return fmt.Errorf("generate %s: %w", kind, err)
		}
		payload, err := extractJSON(raw)
		if err != nil {
			lastErr = err
			continue
		}
		if err := accept(payload); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("generate %s: invalid output after %d attempts: %w", kind, c.attempts, lastErr)
}

// extractJSON recovers a JSON document from raw model output: it strips
// markdown code fences, and failing a direct parse, slices from the first
// opening bracket to the last closing one.
func extractJSON(raw string) ([]byte, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if parts := strings.Split(s, "```"); len(parts) >= 2 {
			s = strings.TrimSpace(parts[1])
			s = strings.TrimSpace(strings.TrimPrefix(s, "json"))
		}
	}
	if json.Valid([]byte(s)) {
		return []byte(s), nil
	}

	start := -1
	for _, open := range []string{"{", "["} {
		if i := strings.Index(s, open); i != -1 && (start == -1 || i < start) {
			start = i
		}
	}
	end := max(strings.LastIndex(s, "}"), strings.LastIndex(s, "]"))
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON document in model output")
	}
	sliced := []byte(s[start : end+1])
	if !json.Valid(sliced) {
		return nil, fmt.Errorf("model output is not valid JSON")
	}
	return sliced, nil
}

// sanitizeFAQ enforces the FAQ contract on generated items: no empty
// questions, no empty answers, at least MinQuestions entries, sequential
// IDs.
func sanitizeFAQ(items []model.FAQItem, facts *model.Facts) []model.FAQItem {
	out := make([]model.FAQItem, 0, MinQuestions)
	for _, item := range items {
		item.Question = strings.TrimSpace(item.Question)
		if item.Question == "" {
			continue
		}
		item.Answer = strings.TrimSpace(item.Answer)
		if item.Answer == "" {
			item.Answer = answerFor(item.Question, facts)
		}
		if item.Category == "" {
			item.Category = model.CategoryInformational
		}
		out = append(out, item)
	}

	// Pad from the deterministic question set, which always holds at
	// least MinQuestions entries.
	for _, q := range GenerateQuestions(facts) {
		if len(out) >= MinQuestions {
			break
		}
		if faqContains(out, q.Question) {
			continue
		}
		out = append(out, model.FAQItem{
			Category: q.Category,
			Question: q.Question,
			Answer:   answerFor(q.Question, facts),
		})
	}

	if len(out) > MaxQuestions && MaxQuestions > 0 {
		out = out[:MaxQuestions]
	}
	for i := range out {
		out[i].ID = strconv.Itoa(i + 1)
	}
	return out
}

func faqContains(items []model.FAQItem, question string) bool {
	for _, item := range items {
		if item.Question == question {
			return true
		}
	}
	return false
}

// repairComparison overwrites the price aspect and the verdict from the
// parsed amounts so generation output can never smuggle in a wrong
// verdict.
func repairComparison(r *model.ComparisonReport) {
	amountA := r.ProductA.Price.Amount
	amountB := r.ProductB.Price.Amount
	currency := r.ProductA.Price.Currency
	if currency == "" {
		currency = model.DefaultCurrency
	}

	price := r.Aspect(model.AspectPrice)
	if price == nil {
		r.Comparisons = append(r.Comparisons, model.ComparisonAspect{Aspect: model.AspectPrice})
		price = &r.Comparisons[len(r.Comparisons)-1]
	}
	price.AOnly = nil
	price.BOnly = nil
	if amountA > 0 {
		price.AOnly = []string{"A price: " + model.Price{Amount: amountA, Currency: currency}.String()}
	}
	if amountB > 0 {
		price.BOnly = []string{"B price: " + model.Price{Amount: amountB, Currency: currency}.String()}
	}
	price.Common = []string{fmt.Sprintf("currency: %s", currency)}

	r.Verdict = priceVerdict(amountA, amountB)
}
