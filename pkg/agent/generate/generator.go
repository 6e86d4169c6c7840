// FILE: pkg/agent/generate/generator.go
// PURPOSE: Synthesize the final answer from accumulated context

package generate

import (
	"context"
	"fmt"
	"strings"

	"agentic-rag-be/internal/constant"
	"agentic-rag-be/pkg/agent/state"
	"agentic-rag-be/pkg/llm"
)

// Generator prompts the model with the graded document set as grounding
// context. Deterministic sampling: grounded answers should not vary run to run.
type Generator struct {
	llm llm.LLMProvider
}

func New(provider llm.LLMProvider) *Generator {
	return &Generator{llm: provider}
}

// Generate sets st.Generation. An empty document set still produces a
// best-effort answer; the caller sees zero documents in the metadata.
func (g *Generator) Generate(ctx context.Context, st *state.PipelineState) error {
	contextBlock := buildContextBlock(st.Documents)

	prompt := fmt.Sprintf(constant.GeneratorPrompt, contextBlock, st.Question)

	answer, err := g.llm.Generate(ctx, prompt, llm.WithTemperature(0))
	if err != nil {
		return fmt.Errorf("answer generation failed: %w", err)
	}

	st.Generation = answer
	return nil
}

func buildContextBlock(docs []state.RetrievedDocument) string {
	if len(docs) == 0 {
		return "(no context available)"
	}

	var sb strings.Builder
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(doc.Content)
	}
	return sb.String()
}
