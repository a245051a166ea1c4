package models

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	Question  string `json:"question" binding:"required"`
}

// Source is a cited page, deduplicated by URL.
type Source struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// CrossReference surfaces the best match from a sibling project. Its results
// are suggestion-only links and never feed the generation context.
type CrossReference struct {
	Project string   `json:"project"`
	Results []Source `json:"results"`
}

// ChatResponse is the QA engine's answer shape. It is always well formed, even
// when retrieval finds nothing.
type ChatResponse struct {
	Answer          string           `json:"answer"`
	Sources         []Source         `json:"sources"`
	CrossReferences []CrossReference `json:"crossReferences"`
}
