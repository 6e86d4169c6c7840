package router

import (
	"context"
	"testing"

	"agentic-rag-be/pkg/agent/state"
	"agentic-rag-be/pkg/llm"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func TestParseRouteResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     state.Route
		wantErr  bool
	}{
		{
			name:     "plain json vectorstore",
			response: `{"datasource": "vectorstore"}`,
			want:     state.RouteVectorstore,
		},
		{
			name:     "plain json web_search",
			response: `{"datasource": "web_search"}`,
			want:     state.RouteWebSearch,
		},
		{
			name:     "plain json direct_llm",
			response: `{"datasource": "direct_llm"}`,
			want:     state.RouteDirectLLM,
		},
		{
			name:     "markdown fenced json",
			response: "```json\n{\"datasource\": \"direct_llm\"}\n```",
			want:     state.RouteDirectLLM,
		},
		{
			name:     "json wrapped in prose",
			response: "Sure! Here is the route: {\"datasource\": \"vectorstore\"} hope that helps",
			want:     state.RouteVectorstore,
		},
		{
			name:     "uppercase label is normalized",
			response: `{"datasource": "VECTORSTORE"}`,
			want:     state.RouteVectorstore,
		},
		{
			name:     "unknown label is an error",
			response: `{"datasource": "sql"}`,
			wantErr:  true,
		},
		{
			name:     "free text is an error",
			response: "I think you should use the vectorstore for this one",
			wantErr:  true,
		},
		{
			name:     "empty response is an error",
			response: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRouteResponse(tt.response)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseRouteResponse(%q) = %q, want error", tt.response, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRouteResponse(%q) error: %v", tt.response, err)
			}
			if got != tt.want {
				t.Errorf("parseRouteResponse(%q) = %q, want %q", tt.response, got, tt.want)
			}
		})
	}
}

func TestRoutePropagatesProviderError(t *testing.T) {
	r := New(&fakeLLM{err: context.DeadlineExceeded})

	_, err := r.Route(context.Background(), "what is an agent?")
	if err == nil {
		t.Fatal("expected error when the classification call fails")
	}
}

func TestRouteRejectsOutOfSetLabel(t *testing.T) {
	r := New(&fakeLLM{response: `{"datasource": "maybe"}`})

	_, err := r.Route(context.Background(), "what is an agent?")
	if err == nil {
		t.Fatal("expected error for out-of-set route label")
	}
}
