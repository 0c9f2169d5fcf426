package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/palemoky/classical-poetry/internal/api/middleware"
	"github.com/palemoky/classical-poetry/internal/api/rest/handler"
	"github.com/palemoky/classical-poetry/internal/config"
	"github.com/palemoky/classical-poetry/internal/metrics"
	"github.com/palemoky/classical-poetry/internal/poetry"
)

// SetupRouter sets up the Gin router with all routes. m may be nil when
// metrics are disabled.
func SetupRouter(cfg *config.Config, db handler.Pinger, svc poetry.Querier, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	if m != nil {
		router.Use(middleware.Metrics(m.HTTP))
		router.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	v1 := router.Group("/api/v1")

	// Rate limiting applies to the API only, never to scrapes
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		v1.Use(rateLimiter.Middleware())
	}

	{
		v1.GET("/health", handler.HealthHandler(db))
		v1.GET("/stats", handler.StatsHandler(svc))

		// Poem routes
		poemHandler := handler.NewPoemHandler(svc, cfg.Search.APILimit, cfg.Random.MaxCount)
		v1.GET("/poems/random", poemHandler.RandomPoems)
		v1.GET("/poems/search", poemHandler.SearchPoems)
		v1.GET("/poems/:id", poemHandler.GetPoem)
		v1.GET("/poems/:id/related", poemHandler.RelatedPoems)

		// Author routes
		authorHandler := handler.NewAuthorHandler(svc)
		v1.GET("/authors", authorHandler.ListAuthors)
		v1.GET("/authors/:name/poems", authorHandler.AuthorPoems)

		// Dynasty routes
		dynastyHandler := handler.NewDynastyHandler(svc)
		v1.GET("/dynasties", dynastyHandler.ListDynasties)
		v1.GET("/dynasties/:name/poems", dynastyHandler.DynastyPoems)
	}

	return router
}
