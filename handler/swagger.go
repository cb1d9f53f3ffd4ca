package handler

import (
	"net/http"

	"github.com/swaggo/swag"
)

// handleSwaggerFile serves the OpenAPI document registered with swag.
func (h *Handler) handleSwaggerFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			h.notFoundResponse(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}
}
