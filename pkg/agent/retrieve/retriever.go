// FILE: pkg/agent/retrieve/retriever.go
// PURPOSE: Pull top-K candidate chunks from the document index

package retrieve

import (
	"context"

	"agentic-rag-be/pkg/agent/state"
)

// TopK is the fixed number of candidates fetched per question.
const TopK = 4

// Searcher is the index the node reads from. Implementations map raw chunks
// to RetrievedDocument with Source set to local.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]state.RetrievedDocument, error)
}

type Node struct {
	searcher Searcher
}

func New(searcher Searcher) *Node {
	return &Node{searcher: searcher}
}

// Retrieve fills st.Documents with up to TopK local documents in the index's
// relevance order. Zero results is a valid outcome, not an error.
func (n *Node) Retrieve(ctx context.Context, st *state.PipelineState) error {
	docs, err := n.searcher.Search(ctx, st.Question, TopK)
	if err != nil {
		return err
	}
	for i := range docs {
		docs[i].Source = state.SourceLocal
	}
	st.Documents = docs
	return nil
}
