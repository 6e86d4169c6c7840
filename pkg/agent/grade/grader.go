// FILE: pkg/agent/grade/grader.go
// PURPOSE: Binary relevance filter over retrieved documents

package grade

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"agentic-rag-be/internal/constant"
	"agentic-rag-be/pkg/agent/state"
	"agentic-rag-be/pkg/llm"
)

// Grader issues one relevance-classification call per document. Any document
// graded not-relevant flips UseWebSearch on: the web results augment the
// surviving local hits, they never replace them.
type Grader struct {
	llm llm.LLMProvider
}

func New(provider llm.LLMProvider) *Grader {
	return &Grader{llm: provider}
}

type gradeDecision struct {
	Score string `json:"score"`
}

// Grade filters st.Documents down to the relevant ones, preserving retrieval
// order, and sets st.UseWebSearch. Zero retrieved documents counts as lack of
// relevant content.
func (g *Grader) Grade(ctx context.Context, st *state.PipelineState) error {
	if len(st.Documents) == 0 {
		st.UseWebSearch = true
		return nil
	}

	filtered := make([]state.RetrievedDocument, 0, len(st.Documents))
	anyIrrelevant := false

	for _, doc := range st.Documents {
		relevant, err := g.gradeOne(ctx, st.Question, doc)
		if err != nil {
			return err
		}
		if relevant {
			filtered = append(filtered, doc)
		} else {
			anyIrrelevant = true
		}
	}

	st.Documents = filtered
	st.UseWebSearch = anyIrrelevant
	return nil
}

func (g *Grader) gradeOne(ctx context.Context, question string, doc state.RetrievedDocument) (bool, error) {
	prompt := fmt.Sprintf(constant.GraderPrompt, doc.Content, question)

	response, err := g.llm.Generate(ctx, prompt,
		llm.WithTemperature(0),
		llm.WithJSONFormat(),
	)
	if err != nil {
		return false, fmt.Errorf("relevance grading call failed: %w", err)
	}

	return parseGradeResponse(response), nil
}

func parseGradeResponse(response string) bool {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart >= 0 && jsonEnd > jsonStart {
		var decision gradeDecision
		if err := json.Unmarshal([]byte(cleaned[jsonStart:jsonEnd+1]), &decision); err == nil {
			return strings.EqualFold(strings.TrimSpace(decision.Score), "yes")
		}
	}

	// Keyword fallback when the model ignores the JSON instruction
	return strings.Contains(strings.ToLower(cleaned), "yes")
}
