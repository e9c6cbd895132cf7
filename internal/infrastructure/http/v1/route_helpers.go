package v1

import (
	"github.com/gin-gonic/gin"
)

// CatalogRoutes is implemented by handlers exposing standard catalog CRUD.
type CatalogRoutes interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
}

// RegisterCatalogRoutes wires standard catalog CRUD endpoints.
func RegisterCatalogRoutes(rg *gin.RouterGroup, h CatalogRoutes) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/deletion-mark", h.SetDeletionMark)
}
