package engine

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/yangwenmai/prodpage/internal/model"
)

// StubModelClient answers prompts without any network call (for
// development and testing). It recovers the facts JSON embedded in the
// prompt and runs the deterministic generators over it, so a keyless
// run still produces grounded output.
type StubModelClient struct{}

func (m *StubModelClient) Complete(_ context.Context, prompt string) (string, error) {
	facts := factsFromPrompt(prompt)

	switch {
	case strings.Contains(prompt, "product page"):
		page, err := ComposePage(facts)
		if err != nil {
			// Echo an incomplete page; the collaborator rejects it.
			page = &model.ProductPage{ProductID: facts.ProductID, Metadata: facts.Metadata}
		}
		return mustJSON(page), nil

	case strings.Contains(prompt, "FAQ writer"):
		faq := RenderFAQ(GenerateQuestions(facts), facts)
		return mustJSON(faq), nil

	case strings.Contains(prompt, "comparison writer"):
		report := CompareProducts(facts, BuildFictionalProductB(facts))
		return mustJSON(report), nil
	}

	return "{}", nil
}

// factsFromPrompt parses the facts_json block every generation prompt
// carries. Unparsable prompts yield empty facts.
func factsFromPrompt(prompt string) *model.Facts {
	facts := &model.Facts{
		Ingredients: []string{},
		Benefits:    []string{},
		Metadata:    map[string]any{},
	}
	_, payload, found := strings.Cut(prompt, "facts_json:\n")
	if !found {
		return facts
	}
	_ = json.Unmarshal([]byte(strings.TrimSpace(payload)), facts)
	return facts
}
