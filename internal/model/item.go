package model

// Item is the domain model for a todo entry.
// An empty ID means the item has never been persisted; the server assigns it.
type Item struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Draft builds a not-yet-created item from a title.
func Draft(title string) Item {
	return Item{Title: title}
}

// Persisted reports whether the server has assigned an id.
func (i Item) Persisted() bool { return i.ID != "" }

// Completed returns a copy marked done. Items never move back to pending.
func (i Item) Completed() Item {
	i.Done = true
	return i
}

// ItemResponse is the list envelope returned by GET /api/todos.
type ItemResponse struct {
	Message string `json:"message"`
	Items   []Item `json:"items"`
}

// Feedback is the body returned by the evaluate endpoint.
type Feedback struct {
	Message string `json:"message"`
}
