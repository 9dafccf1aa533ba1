package navigation

import (
	"fmt"

	"university_portal_backend/internal/common"

	"github.com/gin-gonic/gin"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes sets up the routes for the routing surface.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/routes")
	{
		group.GET("", h.getTable)
		group.GET("/resolve", h.resolve)
	}
}

func (h *Handler) getTable(c *gin.Context) {
	common.RespondOK(c, "Routes retrieved successfully.", TableFor(c.DefaultQuery("current", "/")))
}

func (h *Handler) resolve(c *gin.Context) {
	href := c.Query("href")
	loc, ok := Resolve(href)
	if !ok {
		common.RespondWithError(c, common.ErrNotFound.WithDetails(fmt.Sprintf("No view for %q.", href)))
		return
	}
	common.RespondOK(c, "Route resolved.", loc)
}
