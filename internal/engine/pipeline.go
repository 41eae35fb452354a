package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yangwenmai/prodpage/internal/model"
)

// Default pipeline limits.
const (
	DefaultMaxRetries = 2
)

// Config holds the pipeline limits. Zero values take the defaults above
// (MaxRetries: a negative value means no retries).
type Config struct {
	// MaxRetries is the number of regeneration loops allowed after a
	// failed validation gate.
	MaxRetries int
	// MinQuestions / MaxQuestions bound the generated question set.
	MinQuestions int
	MaxQuestions int
}

func (c Config) withDefaults() Config {
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.MinQuestions == 0 {
		c.MinQuestions = MinQuestions
	}
	if c.MaxQuestions == 0 {
		c.MaxQuestions = MaxQuestions
	}
	return c
}

// State is the envelope threading through one pipeline run. One instance
// per run; never shared across concurrent runs. Facts are derived once and
// survive retries; the three artifacts and the validation outcome are
// cleared before every regeneration attempt.
type State struct {
	Product      model.ProductRecord     `json:"product"`
	Facts        *model.Facts            `json:"facts"`
	Page         *model.ProductPage      `json:"product_page"`
	FAQ          []model.FAQItem         `json:"faq"`
	Comparison   *model.ComparisonReport `json:"comparison"`
	SanityIssues []string                `json:"sanity_issues"`
	Valid        bool                    `json:"is_valid"`
	Reasons      []string                `json:"errors"`
	RetryCount   int                     `json:"retry_count"`
	MaxRetries   int                     `json:"max_retries"`
}

// Reason returns the accumulated failure reasons as one string.
func (s *State) Reason() string {
	return strings.Join(s.Reasons, "; ")
}

// Pipeline orchestrates the generation stages with a bounded retry loop:
//
//	sanity → facts → page → faq → comparison → validate
//	                  ↑___________________________|  (on failure, budget left)
//
// Each generation stage tries the deterministic path first and falls back
// to the external Generator when that path reports an incomplete result.
// Only a Generator failure aborts the run.
type Pipeline struct {
	gen Generator
	cfg Config

	// validate is the gate; a field so tests can force failures.
	validate func(*model.ProductPage, []model.FAQItem, *model.ComparisonReport) (bool, []string)
}

// NewPipeline creates a pipeline using gen as the fallback collaborator.
func NewPipeline(gen Generator, cfg Config) *Pipeline {
	p := &Pipeline{gen: gen, cfg: cfg.withDefaults()}
	p.validate = func(page *model.ProductPage, faq []model.FAQItem, cmp *model.ComparisonReport) (bool, []string) {
		return validateArtifacts(page, faq, cmp, p.cfg.MinQuestions)
	}
	return p
}

// Run executes the pipeline for one product record. The returned State is
// always non-nil; err is non-nil only when a fallback generation stage
// failed terminally (wrapped in *StageError). A run that merely exhausts
// its retry budget returns Valid=false with the reasons accumulated,
// without an error.
func (p *Pipeline) Run(ctx context.Context, product model.ProductRecord) (*State, error) {
	st := &State{Product: product, MaxRetries: p.cfg.MaxRetries}

	st.SanityIssues = SanityCheck(product)
	if len(st.SanityIssues) > 0 {
		slog.Warn("sanity issues found", "product_id", product.ID, "issues", st.SanityIssues)
	}

	st.Facts = ExtractFacts(product)

	for {
		if err := p.runPage(ctx, st); err != nil {
			return st, err
		}
		if err := p.runFAQ(ctx, st); err != nil {
			return st, err
		}
		if err := p.runComparison(ctx, st); err != nil {
			return st, err
		}

		st.Valid, st.Reasons = p.validate(st.Page, st.FAQ, st.Comparison)
		if st.Valid {
			return st, nil
		}

		if st.RetryCount >= st.MaxRetries {
			slog.Error("validation failed, retry budget exhausted",
				"product_id", product.ID, "reasons", st.Reasons, "retries", st.RetryCount)
			return st, nil
		}

		slog.Warn("validation failed, retrying",
			"product_id", product.ID, "reasons", st.Reasons, "attempt", st.RetryCount+1)
		st.RetryCount++
		st.Page = nil
		st.FAQ = nil
		st.Comparison = nil
		st.Valid = false
	}
}

func (p *Pipeline) runPage(ctx context.Context, st *State) error {
	page, err := ComposePage(st.Facts)
	if err != nil {
		slog.Warn("deterministic product page failed, falling back", "error", err)
		page, err = p.gen.GeneratePage(ctx, st.Facts)
		if err != nil {
			return &StageError{Stage: "page", Err: err}
		}
	}
	st.Page = page
	return nil
}

func (p *Pipeline) runFAQ(ctx context.Context, st *State) error {
	questions := generateQuestions(st.Facts, p.cfg.MinQuestions, p.cfg.MaxQuestions)
	faq := RenderFAQ(questions, st.Facts)
	if len(faq) < p.cfg.MinQuestions {
		slog.Warn("deterministic FAQ too small, falling back", "items", len(faq))
		var err error
		faq, err = p.gen.GenerateFAQ(ctx, st.Facts)
		if err != nil {
			return &StageError{Stage: "faq", Err: err}
		}
	}
	st.FAQ = faq
	return nil
}

func (p *Pipeline) runComparison(ctx context.Context, st *State) error {
	b := BuildFictionalProductB(st.Facts)
	report := CompareProducts(st.Facts, b)
	if report == nil || report.Verdict == "" {
		slog.Warn("deterministic comparison incomplete, falling back")
		var err error
		report, err = p.gen.GenerateComparison(ctx, st.Facts)
		if err != nil {
			return &StageError{Stage: "comparison", Err: err}
		}
	}
	st.Comparison = report
	return nil
}

// validateArtifacts is ValidateArtifacts with a configurable FAQ minimum.
func validateArtifacts(page *model.ProductPage, faq []model.FAQItem, comparison *model.ComparisonReport, minFAQ int) (bool, []string) {
	var reasons []string
	if page == nil {
		reasons = append(reasons, "Missing product_page")
	}
	if len(faq) < minFAQ {
		reasons = append(reasons, "FAQ missing or < 15 items")
	}
	if comparison == nil {
		reasons = append(reasons, "Missing comparison")
	}
	return len(reasons) == 0, reasons
}
