package domain

// Chunk is a bounded-length text segment derived from a staged file.
// Chunks are ordered; Position is the document reading order and,
// together with FileID, forms the chunk's identity in the vector store.
// A chunk is never mutated after creation.
type Chunk struct {
	// FileID identifies the source file (folder name + file name).
	FileID string

	// Position is the ordinal index within the file's chunk sequence.
	Position int

	// Content is the chunk text.
	Content string

	// StartOffset is the byte offset of Content in the extracted
	// document text, recorded for traceability.
	StartOffset int

	// Metadata carries source attribution for retrieval display.
	Metadata map[string]string
}

// Passage is a similarity-search hit returned by the vector store.
type Passage struct {
	// Content is the matched chunk text.
	Content string

	// Metadata is the chunk metadata stored at ingestion time.
	Metadata map[string]string

	// Score is the store's relevance score. Higher is more relevant.
	Score float64
}

// WebArticle is one live web-search result.
type WebArticle struct {
	Title    string
	Abstract string
	URL      string
}

// SourceRef is a numbered reference in an assembled context.
type SourceRef struct {
	Index int
	Title string
	URL   string
}

// AssembledContext is the retrieval output handed to the LLM caller:
// one bounded context string plus the references it cites.
type AssembledContext struct {
	Context string
	Sources []SourceRef
}
