package grade

import (
	"context"
	"strings"
	"testing"

	"agentic-rag-be/pkg/agent/state"
	"agentic-rag-be/pkg/llm"
)

// fakeLLM grades by substring: documents containing "irrelevant" get a no.
type fakeLLM struct{}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if strings.Contains(prompt, "irrelevant") {
		return `{"score": "no"}`, nil
	}
	return `{"score": "yes"}`, nil
}

func TestGradeFiltersIrrelevantAndFlagsWebSearch(t *testing.T) {
	g := New(&fakeLLM{})
	st := &state.PipelineState{
		Question: "what are adversarial attacks?",
		Documents: []state.RetrievedDocument{
			{Content: "doc one about attacks", SourceID: "a", Source: state.SourceLocal},
			{Content: "irrelevant cooking recipe", SourceID: "b", Source: state.SourceLocal},
			{Content: "doc three about attacks", SourceID: "c", Source: state.SourceLocal},
			{Content: "doc four about attacks", SourceID: "d", Source: state.SourceLocal},
		},
	}

	if err := g.Grade(context.Background(), st); err != nil {
		t.Fatalf("Grade: %v", err)
	}

	if !st.UseWebSearch {
		t.Error("UseWebSearch = false, want true after an irrelevant hit")
	}
	if len(st.Documents) != 3 {
		t.Fatalf("got %d documents, want 3", len(st.Documents))
	}
	// Retrieval order must be preserved
	wantIDs := []string{"a", "c", "d"}
	for i, want := range wantIDs {
		if st.Documents[i].SourceID != want {
			t.Errorf("documents[%d].SourceID = %q, want %q", i, st.Documents[i].SourceID, want)
		}
	}
}

func TestGradeAllRelevantKeepsWebSearchOff(t *testing.T) {
	g := New(&fakeLLM{})
	st := &state.PipelineState{
		Question: "what are agents?",
		Documents: []state.RetrievedDocument{
			{Content: "agents doc", SourceID: "a", Source: state.SourceLocal},
			{Content: "more agents", SourceID: "b", Source: state.SourceLocal},
		},
	}

	if err := g.Grade(context.Background(), st); err != nil {
		t.Fatalf("Grade: %v", err)
	}

	if st.UseWebSearch {
		t.Error("UseWebSearch = true, want false when every document is relevant")
	}
	if len(st.Documents) != 2 {
		t.Errorf("got %d documents, want 2", len(st.Documents))
	}
}

func TestGradeZeroDocumentsTriggersWebSearch(t *testing.T) {
	g := New(&fakeLLM{})
	st := &state.PipelineState{Question: "anything"}

	if err := g.Grade(context.Background(), st); err != nil {
		t.Fatalf("Grade: %v", err)
	}

	if !st.UseWebSearch {
		t.Error("UseWebSearch = false, want true for empty retrieval")
	}
	if len(st.Documents) != 0 {
		t.Errorf("got %d documents, want 0", len(st.Documents))
	}
}

func TestParseGradeResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{"json yes", `{"score": "yes"}`, true},
		{"json no", `{"score": "no"}`, false},
		{"fenced json yes", "```json\n{\"score\": \"yes\"}\n```", true},
		{"uppercase yes", `{"score": "YES"}`, true},
		{"keyword fallback yes", "yes, this is relevant", true},
		{"keyword fallback no", "not relevant at all", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseGradeResponse(tt.response); got != tt.want {
				t.Errorf("parseGradeResponse(%q) = %v, want %v", tt.response, got, tt.want)
			}
		})
	}
}
