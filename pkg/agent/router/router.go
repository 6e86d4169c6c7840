// FILE: pkg/agent/router/router.go
// PURPOSE: Classify a question into one of the three answer routes

package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"agentic-rag-be/internal/constant"
	"agentic-rag-be/pkg/agent/state"
	"agentic-rag-be/pkg/llm"
)

// Router asks the model which datasource should answer the question.
// An out-of-set answer is a hard error, never silently defaulted.
type Router struct {
	llm llm.LLMProvider
}

func New(provider llm.LLMProvider) *Router {
	return &Router{llm: provider}
}

type routeDecision struct {
	Datasource string `json:"datasource"`
}

func (r *Router) Route(ctx context.Context, question string) (state.Route, error) {
	prompt := fmt.Sprintf(constant.RouterPrompt, question)

	response, err := r.llm.Generate(ctx, prompt,
		llm.WithTemperature(0),
		llm.WithJSONFormat(),
	)
	if err != nil {
		return "", fmt.Errorf("route classification call failed: %w", err)
	}

	route, err := parseRouteResponse(response)
	if err != nil {
		return "", err
	}
	return route, nil
}

func parseRouteResponse(response string) (state.Route, error) {
	cleaned := cleanJSONResponse(response)

	var decision routeDecision
	if err := json.Unmarshal([]byte(cleaned), &decision); err != nil {
		return "", fmt.Errorf("route classification returned malformed output: %q", response)
	}

	route := state.Route(strings.TrimSpace(strings.ToLower(decision.Datasource)))
	if !route.Valid() {
		return "", fmt.Errorf("route classification returned unknown route: %q", decision.Datasource)
	}
	return route, nil
}

// cleanJSONResponse strips markdown fences and surrounding text the model
// sometimes wraps around its JSON object.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")
	if jsonStart >= 0 && jsonEnd > jsonStart {
		response = response[jsonStart : jsonEnd+1]
	}
	return response
}
