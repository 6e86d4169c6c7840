// FILE: pkg/agent/generate/direct.go
// PURPOSE: Answer small talk and simple questions without external context

package generate

import (
	"context"
	"fmt"

	"agentic-rag-be/internal/constant"
	"agentic-rag-be/pkg/agent/state"
	"agentic-rag-be/pkg/llm"
)

// DirectAnswerer handles the direct_llm route. Higher temperature than the
// grounded Generator: conversational phrasing is expected here.
type DirectAnswerer struct {
	llm llm.LLMProvider
}

func NewDirectAnswerer(provider llm.LLMProvider) *DirectAnswerer {
	return &DirectAnswerer{llm: provider}
}

func (d *DirectAnswerer) Answer(ctx context.Context, st *state.PipelineState) error {
	history := []llm.Message{
		{Role: "system", Content: constant.DirectAnswerSystemPrompt},
		{Role: "user", Content: st.Question},
	}

	answer, err := d.llm.Chat(ctx, history, llm.WithTemperature(0.7))
	if err != nil {
		return fmt.Errorf("direct answer failed: %w", err)
	}

	st.Generation = answer
	st.Documents = nil
	st.UseWebSearch = false
	return nil
}
