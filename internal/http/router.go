package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"pehlione.com/catalog/internal/http/handlers/admin"
	"pehlione.com/catalog/internal/http/middleware"
	"pehlione.com/catalog/internal/modules/variants"
	"pehlione.com/catalog/internal/sessions"
)

type Deps struct {
	Sessions sessions.Store
	// Catalog is nil when no database is configured.
	Catalog    admin.CatalogService
	SKUs       variants.SKUGenerator
	StagingDir string

	// UploadDir is served under UploadURLPrefix when images live on local disk.
	UploadDir       string
	UploadURLPrefix string

	AdminToken   string
	MaxBodyBytes int64
}

func NewRouter(logger *slog.Logger, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.ErrorHandler(logger),
		middleware.Recovery(logger),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok", "catalog": d.Catalog != nil})
	})
	if d.UploadDir != "" && d.UploadURLPrefix != "" {
		r.Static(d.UploadURLPrefix, d.UploadDir)
	}

	api := r.Group("/api/admin",
		middleware.RequireAdminToken(d.AdminToken),
		middleware.BodyLimit(d.MaxBodyBytes),
	)
	admin.NewVariantsHandler(d.Sessions, d.Catalog, d.SKUs, d.StagingDir, logger).
		Register(api.Group("/editors"))

	return r
}
