// FILE: pkg/agent/state/state.go
// PURPOSE: Shared state threaded through one answering pipeline run

package state

// Route is the answering strategy chosen for one question.
type Route string

const (
	RouteVectorstore Route = "vectorstore"
	RouteWebSearch   Route = "web_search"
	RouteDirectLLM   Route = "direct_llm"
)

// Valid reports whether r is one of the three known routes.
func (r Route) Valid() bool {
	switch r {
	case RouteVectorstore, RouteWebSearch, RouteDirectLLM:
		return true
	}
	return false
}

// DocumentSource tags where a retrieved document came from.
type DocumentSource string

const (
	SourceLocal DocumentSource = "local"
	SourceWeb   DocumentSource = "web"
)

// RetrievedDocument is a single piece of grounding context. Every node that
// produces documents stamps Source, so downstream metadata never has to
// guess by inspecting content.
type RetrievedDocument struct {
	Content  string
	SourceID string
	Source   DocumentSource
}

// PipelineState is mutated in place by each node of one run and discarded
// after the orchestrator returns.
type PipelineState struct {
	Question     string
	Documents    []RetrievedDocument
	Route        Route
	UseWebSearch bool
	Generation   string
}

// RouteTaken derives the reported route from the document source tags.
// A run that pulled in any web result counts as web_search even if the
// router originally said vectorstore. UseWebSearch covers the case where
// augmentation ran but the provider returned nothing.
func (s *PipelineState) RouteTaken() Route {
	for _, doc := range s.Documents {
		if doc.Source == SourceWeb {
			return RouteWebSearch
		}
	}
	if s.UseWebSearch {
		return RouteWebSearch
	}
	if len(s.Documents) > 0 {
		return RouteVectorstore
	}
	return RouteDirectLLM
}

// UsedWebSearch reports whether this run called out to web search,
// regardless of how many results came back.
func (s *PipelineState) UsedWebSearch() bool {
	return s.UseWebSearch
}
