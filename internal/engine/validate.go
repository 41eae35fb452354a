package engine

import "github.com/yangwenmai/prodpage/internal/model"

// ValidateArtifacts is the completeness gate run once per attempt. Every
// rule is checked independently and reasons accumulate; any missing or
// undersized artifact invalidates the whole attempt.
func ValidateArtifacts(page *model.ProductPage, faq []model.FAQItem, comparison *model.ComparisonReport) (bool, []string) {
	return validateArtifacts(page, faq, comparison, MinQuestions)
}
