// FILE: pkg/agent/pipeline/pipeline.go
// PURPOSE: Decision graph sequencing router, retrieval, grading and generation

package pipeline

import (
	"context"
	"log"

	"agentic-rag-be/pkg/agent/generate"
	"agentic-rag-be/pkg/agent/grade"
	"agentic-rag-be/pkg/agent/retrieve"
	"agentic-rag-be/pkg/agent/router"
	"agentic-rag-be/pkg/agent/search"
	"agentic-rag-be/pkg/agent/state"
)

// Result is what one pipeline run hands back to the service layer.
type Result struct {
	Question       string
	Answer         string
	RouteTaken     state.Route
	Documents      []state.RetrievedDocument
	UsedWebSearch  bool
	DocumentsCount int
}

// Pipeline runs one question through the decision graph. Nodes execute
// strictly sequentially, no cycles, no retries. Any node failure fails the
// whole run.
//
// The web_search route skips local retrieval and goes straight to the web.
// The vectorstore route retrieves, grades, and falls back to web augmentation
// when the grader finds any irrelevant hit.
type Pipeline struct {
	router    *router.Router
	retriever *retrieve.Node
	grader    *grade.Grader
	webSearch *search.Node
	generator *generate.Generator
	direct    *generate.DirectAnswerer
	logger    *log.Logger
}

func New(
	rt *router.Router,
	retriever *retrieve.Node,
	grader *grade.Grader,
	webSearch *search.Node,
	generator *generate.Generator,
	direct *generate.DirectAnswerer,
	logger *log.Logger,
) *Pipeline {
	return &Pipeline{
		router:    rt,
		retriever: retriever,
		grader:    grader,
		webSearch: webSearch,
		generator: generator,
		direct:    direct,
		logger:    logger,
	}
}

func (p *Pipeline) Run(ctx context.Context, question string) (*Result, error) {
	st := &state.PipelineState{
		Question: question,
	}

	route, err := p.router.Route(ctx, question)
	if err != nil {
		return nil, err
	}
	st.Route = route
	p.logger.Printf("[PIPELINE] route=%s", route)

	switch route {
	case state.RouteDirectLLM:
		p.logger.Printf("[PIPELINE] direct answer")
		if err := p.direct.Answer(ctx, st); err != nil {
			return nil, err
		}

	case state.RouteWebSearch:
		p.logger.Printf("[PIPELINE] web search")
		st.UseWebSearch = true
		if err := p.webSearch.Search(ctx, st); err != nil {
			return nil, err
		}
		if err := p.generator.Generate(ctx, st); err != nil {
			return nil, err
		}

	case state.RouteVectorstore:
		p.logger.Printf("[PIPELINE] retrieve")
		if err := p.retriever.Retrieve(ctx, st); err != nil {
			return nil, err
		}
		p.logger.Printf("[PIPELINE] grade %d documents", len(st.Documents))
		if err := p.grader.Grade(ctx, st); err != nil {
			return nil, err
		}
		if st.UseWebSearch {
			p.logger.Printf("[PIPELINE] web augmentation")
			if err := p.webSearch.Search(ctx, st); err != nil {
				return nil, err
			}
		}
		if err := p.generator.Generate(ctx, st); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Question:       question,
		Answer:         st.Generation,
		RouteTaken:     st.RouteTaken(),
		Documents:      st.Documents,
		UsedWebSearch:  st.UsedWebSearch(),
		DocumentsCount: len(st.Documents),
	}
	p.logger.Printf("[PIPELINE] done route_taken=%s documents=%d", result.RouteTaken, result.DocumentsCount)
	return result, nil
}
