package pipeline

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"agentic-rag-be/pkg/agent/generate"
	"agentic-rag-be/pkg/agent/grade"
	"agentic-rag-be/pkg/agent/retrieve"
	"agentic-rag-be/pkg/agent/router"
	"agentic-rag-be/pkg/agent/search"
	"agentic-rag-be/pkg/agent/state"
	"agentic-rag-be/pkg/llm"
	"agentic-rag-be/pkg/websearch"
)

// scriptedLLM answers each call shape by inspecting the prompt. The router,
// grader and generator prompts are distinguishable by their fixed instructions.
type scriptedLLM struct {
	route          string
	irrelevantDocs []string
}

func (f *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	// Only the direct-answer path uses Chat
	return "Hello! 2+2 is 4.", nil
}

func (f *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	switch {
	case strings.Contains(prompt, "routing a user question"):
		return `{"datasource": "` + f.route + `"}`, nil
	case strings.Contains(prompt, "grader assessing"):
		for _, marker := range f.irrelevantDocs {
			if strings.Contains(prompt, marker) {
				return `{"score": "no"}`, nil
			}
		}
		return `{"score": "yes"}`, nil
	default:
		return "Here is the synthesized answer.", nil
	}
}

type fakeSearcher struct {
	docs []state.RetrievedDocument
	err  error
}

func (f *fakeSearcher) Search(ctx context.Context, query string, k int) ([]state.RetrievedDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.docs) > k {
		return f.docs[:k], nil
	}
	return f.docs, nil
}

type fakeWebProvider struct {
	results []websearch.Result
	called  bool
}

func (f *fakeWebProvider) Search(ctx context.Context, query string, maxResults int) ([]websearch.Result, error) {
	f.called = true
	return f.results, nil
}

func newTestPipeline(provider llm.LLMProvider, searcher retrieve.Searcher, web websearch.SearchProvider) *Pipeline {
	return New(
		router.New(provider),
		retrieve.New(searcher),
		grade.New(provider),
		search.New(web),
		generate.New(provider),
		generate.NewDirectAnswerer(provider),
		log.New(io.Discard, "", 0),
	)
}

func TestRunDirectAnswer(t *testing.T) {
	provider := &scriptedLLM{route: "direct_llm"}
	web := &fakeWebProvider{}
	p := newTestPipeline(provider, &fakeSearcher{}, web)

	result, err := p.Run(context.Background(), "What is 2+2?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.RouteTaken != state.RouteDirectLLM {
		t.Errorf("RouteTaken = %q, want direct_llm", result.RouteTaken)
	}
	if result.DocumentsCount != 0 {
		t.Errorf("DocumentsCount = %d, want 0", result.DocumentsCount)
	}
	if result.UsedWebSearch {
		t.Error("UsedWebSearch = true, want false")
	}
	if result.Answer == "" {
		t.Error("Answer is empty")
	}
	if web.called {
		t.Error("web search must not run on the direct path")
	}
}

func TestRunVectorstoreAllRelevant(t *testing.T) {
	provider := &scriptedLLM{route: "vectorstore"}
	searcher := &fakeSearcher{docs: []state.RetrievedDocument{
		{Content: "agents overview", SourceID: "doc1"},
		{Content: "prompt engineering", SourceID: "doc2"},
	}}
	web := &fakeWebProvider{}
	p := newTestPipeline(provider, searcher, web)

	result, err := p.Run(context.Background(), "What are agents?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.RouteTaken != state.RouteVectorstore {
		t.Errorf("RouteTaken = %q, want vectorstore", result.RouteTaken)
	}
	if result.DocumentsCount != 2 {
		t.Errorf("DocumentsCount = %d, want 2", result.DocumentsCount)
	}
	if result.UsedWebSearch {
		t.Error("UsedWebSearch = true, want false")
	}
	if web.called {
		t.Error("web search must not run when every document is relevant")
	}
	for _, doc := range result.Documents {
		if doc.Source != state.SourceLocal {
			t.Errorf("document %q tagged %q, want local", doc.SourceID, doc.Source)
		}
	}
}

func TestRunVectorstoreWithWebAugmentation(t *testing.T) {
	provider := &scriptedLLM{route: "vectorstore", irrelevantDocs: []string{"cooking recipe"}}
	searcher := &fakeSearcher{docs: []state.RetrievedDocument{
		{Content: "doc one agents", SourceID: "doc1"},
		{Content: "cooking recipe", SourceID: "doc2"},
		{Content: "doc three agents", SourceID: "doc3"},
		{Content: "doc four agents", SourceID: "doc4"},
	}}
	web := &fakeWebProvider{results: []websearch.Result{
		{Content: "fresh web snippet", URL: "https://example.com/a"},
	}}
	p := newTestPipeline(provider, searcher, web)

	result, err := p.Run(context.Background(), "What are agents?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !result.UsedWebSearch {
		t.Error("UsedWebSearch = false, want true")
	}
	if result.RouteTaken != state.RouteWebSearch {
		t.Errorf("RouteTaken = %q, want web_search", result.RouteTaken)
	}

	// Surviving local docs first, in retrieval order, then web results
	wantIDs := []string{"doc1", "doc3", "doc4", "https://example.com/a"}
	if len(result.Documents) != len(wantIDs) {
		t.Fatalf("got %d documents, want %d", len(result.Documents), len(wantIDs))
	}
	for i, want := range wantIDs {
		if result.Documents[i].SourceID != want {
			t.Errorf("documents[%d].SourceID = %q, want %q", i, result.Documents[i].SourceID, want)
		}
	}
	if result.Documents[3].Source != state.SourceWeb {
		t.Errorf("web document tagged %q, want web", result.Documents[3].Source)
	}
}

func TestRunWebAugmentationWithEmptyResults(t *testing.T) {
	provider := &scriptedLLM{route: "vectorstore", irrelevantDocs: []string{"cooking recipe"}}
	searcher := &fakeSearcher{docs: []state.RetrievedDocument{
		{Content: "doc one agents", SourceID: "doc1"},
		{Content: "cooking recipe", SourceID: "doc2"},
	}}
	web := &fakeWebProvider{} // provider finds nothing
	p := newTestPipeline(provider, searcher, web)

	result, err := p.Run(context.Background(), "What are agents?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !web.called {
		t.Error("web search was not called")
	}
	// The run must still report that augmentation happened, even though no
	// web document made it into the final set.
	if !result.UsedWebSearch {
		t.Error("UsedWebSearch = false, want true")
	}
	if result.RouteTaken != state.RouteWebSearch {
		t.Errorf("RouteTaken = %q, want web_search", result.RouteTaken)
	}
	if result.DocumentsCount != 1 {
		t.Errorf("DocumentsCount = %d, want 1", result.DocumentsCount)
	}
	if result.Documents[0].SourceID != "doc1" {
		t.Errorf("documents[0].SourceID = %q, want doc1", result.Documents[0].SourceID)
	}
}

func TestRunWebSearchRouteSkipsRetrieval(t *testing.T) {
	provider := &scriptedLLM{route: "web_search"}
	searcher := &fakeSearcher{err: context.Canceled} // retrieval would fail if called
	web := &fakeWebProvider{results: []websearch.Result{
		{Content: "current event snippet", URL: "https://example.com/news"},
	}}
	p := newTestPipeline(provider, searcher, web)

	result, err := p.Run(context.Background(), "Who won the election?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !web.called {
		t.Error("web search was not called")
	}
	if result.RouteTaken != state.RouteWebSearch {
		t.Errorf("RouteTaken = %q, want web_search", result.RouteTaken)
	}
	if result.DocumentsCount != 1 {
		t.Errorf("DocumentsCount = %d, want 1", result.DocumentsCount)
	}
}

func TestRunFailsOnUnknownRoute(t *testing.T) {
	provider := &scriptedLLM{route: "crystal_ball"}
	p := newTestPipeline(provider, &fakeSearcher{}, &fakeWebProvider{})

	_, err := p.Run(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected error for out-of-set route")
	}
}

func TestRetrieverCapsAtTopK(t *testing.T) {
	docs := make([]state.RetrievedDocument, 0, 6)
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		docs = append(docs, state.RetrievedDocument{Content: id, SourceID: id})
	}
	node := retrieve.New(&fakeSearcher{docs: docs})

	st := &state.PipelineState{Question: "q"}
	if err := node.Retrieve(context.Background(), st); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(st.Documents) != retrieve.TopK {
		t.Errorf("got %d documents, want %d", len(st.Documents), retrieve.TopK)
	}
}
