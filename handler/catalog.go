package handler

import (
	"net/http"

	"github.com/emzola/locallibrary/data"
)

func (h *Handler) homeHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/catalog", http.StatusFound)
}

// Index godoc
// @Summary Show catalog counts
// @Description Counts books, copies, available copies, authors and genres. The counts are cached briefly.
// @Tags catalog
// @Produce json
// @Success 200 {object} data.CatalogSummary
// @Failure 500
// @Router /catalog [get]
func (h *Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := h.catalogSummary(r)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "index", envelope{"title": "Local Library Home", "data": summary})
}

// catalogSummary returns the cached summary, computing it on a miss.
func (h *Handler) catalogSummary(r *http.Request) (*data.CatalogSummary, error) {
	if h.cache != nil {
		if item := h.cache.Get(summaryCacheKey); item != nil {
			return item.Value(), nil
		}
	}
	summary, err := h.service.CatalogSummary(r.Context())
	if err != nil {
		return nil, err
	}
	if h.cache != nil {
		h.cache.Set(summaryCacheKey, summary, h.config.Cache.SummaryTTL)
	}
	return summary, nil
}
