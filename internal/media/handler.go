package media

import (
	"errors"

	"university_portal_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	resolver *Resolver
	logger   *zap.Logger
}

func NewHandler(resolver *Resolver, logger *zap.Logger) *Handler {
	return &Handler{resolver: resolver, logger: logger}
}

// RegisterRoutes sets up the routes for media operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/media")
	{
		group.GET("/resolve", h.resolve)
	}
}

func (h *Handler) resolve(c *gin.Context) {
	res, err := h.resolver.Resolve(c.Request.Context(), c.Query("src"))
	if err != nil {
		if errors.Is(err, ErrEmptySource) {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("The src query parameter is required."))
			return
		}
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Image source resolved.", res)
}
