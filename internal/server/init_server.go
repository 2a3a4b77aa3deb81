package server

import (
	"github.com/labstack/echo/v4"
	"github.com/takatori/threadsearch/internal"
	"github.com/takatori/threadsearch/internal/harvest"
	"github.com/takatori/threadsearch/internal/search/solr"
	"github.com/takatori/threadsearch/internal/server/handler"
	"github.com/takatori/threadsearch/internal/store"
)

func InitServer(config *internal.Config, engine *solr.SolrEngine, harvester *harvest.Harvester, st *store.Store) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Debug = config.Env == internal.Development

	e.GET("/health", handler.NewHealthHandler())
	e.POST("/solr/setup", handler.NewSetupSolrHandler(engine))
	e.POST("/solr/schema", handler.NewSetupSolrSchemaHandler(engine))
	e.POST("/solr/feed", handler.NewFeedSolrDataHandler(engine))
	e.POST("/query/expand", handler.NewExpandQueryHandler())
	e.POST("/search/:collection", handler.NewSearchHandler(engine))
	e.POST("/threads/:id/harvest", handler.NewHarvestHandler(harvester, st))

	return e, nil
}
