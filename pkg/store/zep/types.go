package zep

// collectionResponse represents a Zep collection response.
type collectionResponse struct {
	Name     string         `json:"name"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// createCollectionRequest is the request body for creating a collection.
type createCollectionRequest struct {
	Name string `json:"name"`
}

// deleteDocumentsRequest is the request body for batch-deleting documents.
type deleteDocumentsRequest struct {
	IDs []string `json:"ids"`
}
