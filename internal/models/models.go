package models

// Document is a single indexed chunk of the corpus together with its
// embedding vector. Content is the retrieval key; IDs are regenerated on
// every rebuild.
type Document struct {
	ID        string
	Content   string
	Metadata  map[string]string
	Embedding []float32
}

// SearchResult is a retrieved chunk with its similarity score.
type SearchResult struct {
	Content    string
	Metadata   map[string]string
	Similarity float32
}

// Turn is one entry in a session's conversation log.
type Turn struct {
	Role    string
	Content string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
