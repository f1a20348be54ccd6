package domain

// EmbeddingConfig selects the embedding function bound to a collection
// at creation time. A collection keeps its embedding binding for its
// whole lifetime. The zero value is the store's default embedding model.
type EmbeddingConfig struct {
	custom bool
	url    string
	model  string
}

// DefaultEmbedding returns the store-default embedding binding.
func DefaultEmbedding() EmbeddingConfig {
	return EmbeddingConfig{}
}

// CustomEmbedding returns a binding to a URL-addressed embedding
// provider (e.g. an Ollama server) with a named model.
func CustomEmbedding(url, model string) EmbeddingConfig {
	return EmbeddingConfig{custom: true, url: url, model: model}
}

// IsDefault reports whether the store-default embedding model is used.
func (e EmbeddingConfig) IsDefault() bool {
	return !e.custom
}

// URL returns the provider URL for a custom binding, "" for default.
func (e EmbeddingConfig) URL() string {
	return e.url
}

// Model returns the model name for a custom binding, "" for default.
func (e EmbeddingConfig) Model() string {
	return e.model
}
