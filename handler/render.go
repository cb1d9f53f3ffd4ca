package handler

import (
	"net/http"
)

// Renderer turns a view name and its data into a response body.
type Renderer interface {
	Render(w http.ResponseWriter, status int, view string, data map[string]any) error
}

// JSONRenderer writes the view data as a JSON document with an added "view"
// member naming the view.
type JSONRenderer struct{}

func (JSONRenderer) Render(w http.ResponseWriter, status int, view string, data map[string]any) error {
	doc := make(envelope, len(data)+1)
	for k, v := range data {
		doc[k] = v
	}
	doc["view"] = view
	return writeJSON(w, status, doc, nil)
}

// render hands a view to the configured renderer.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, view string, data envelope) {
	err := h.renderer.Render(w, status, view, data)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
