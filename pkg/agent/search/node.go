// FILE: pkg/agent/search/node.go
// PURPOSE: Augment the document set with live web results

package search

import (
	"context"

	"agentic-rag-be/pkg/agent/state"
	"agentic-rag-be/pkg/websearch"
)

// MaxResults is the number of web snippets appended per augmentation.
const MaxResults = 3

type Node struct {
	provider websearch.SearchProvider
}

func New(provider websearch.SearchProvider) *Node {
	return &Node{provider: provider}
}

// Search appends web results to the existing document sequence. It is
// additive: surviving local documents stay in front, web results follow in
// provider order. Web results are not re-graded.
func (n *Node) Search(ctx context.Context, st *state.PipelineState) error {
	results, err := n.provider.Search(ctx, st.Question, MaxResults)
	if err != nil {
		return err
	}

	for _, r := range results {
		st.Documents = append(st.Documents, state.RetrievedDocument{
			Content:  r.Content,
			SourceID: r.URL,
			Source:   state.SourceWeb,
		})
	}
	return nil
}
