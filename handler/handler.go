package handler

import (
	"github.com/emzola/locallibrary/config"
	"github.com/emzola/locallibrary/data"
	"github.com/emzola/locallibrary/internal/jsonlog"
	"github.com/emzola/locallibrary/service"
	"github.com/jellydator/ttlcache/v3"
)

// summaryCacheKey is the single key the index page summary is cached under.
const summaryCacheKey = "catalog_summary"

// Handler defines Handler layer.
type Handler struct {
	config   config.Config
	logger   *jsonlog.Logger
	cache    *ttlcache.Cache[string, *data.CatalogSummary]
	service  service.Service
	renderer Renderer
}

// New creates a new instance of Handler. A nil renderer selects JSONRenderer.
func New(cfg config.Config, logger *jsonlog.Logger, cache *ttlcache.Cache[string, *data.CatalogSummary], service service.Service, renderer Renderer) *Handler {
	if renderer == nil {
		renderer = JSONRenderer{}
	}
	return &Handler{
		config:   cfg,
		logger:   logger,
		cache:    cache,
		service:  service,
		renderer: renderer,
	}
}
