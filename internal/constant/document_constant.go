package constant

const (
	// Character-based chunking parameters for document ingestion.
	ChunkSize    = 1000
	ChunkOverlap = 200

	// EmbedChunksTopic is the watermill topic carrying documents queued for
	// chunk embedding.
	EmbedChunksTopic = "document.embed_chunks"
)
