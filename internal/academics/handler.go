package academics

import (
	"university_portal_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for academics operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/academics")
	{
		group.GET("/programs", h.listPrograms)
		group.GET("/programs/filters", h.listFilters)
	}
}

func (h *Handler) listPrograms(c *gin.Context) {
	level := Level(c.DefaultQuery("level", string(LevelAll)))
	programs, err := h.service.ListPrograms(c.Request.Context(), level)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	resp := ProgramListResponse{
		Filters:  Filters,
		Active:   level,
		Programs: make([]ProgramResponse, len(programs)),
	}
	for i, p := range programs {
		resp.Programs[i] = ToProgramResponse(p)
	}
	common.RespondOK(c, "Programs retrieved successfully.", resp)
}

func (h *Handler) listFilters(c *gin.Context) {
	common.RespondOK(c, "Program filters retrieved successfully.", Filters)
}
