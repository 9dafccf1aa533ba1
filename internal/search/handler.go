// File: internal/search/handler.go
package search

import (
	"university_portal_backend/internal/catalog"
	"university_portal_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OverlayKey is the gin context key under which the session middleware stores the caller's *Overlay.
const OverlayKey = "searchOverlay"

// OverlayFromContext returns the session's overlay.
func OverlayFromContext(c *gin.Context) (*Overlay, error) {
	v, ok := c.Get(OverlayKey)
	if !ok {
		return nil, common.ErrInternalServer.WithDetails("search overlay not bound to request")
	}
	o, ok := v.(*Overlay)
	if !ok {
		return nil, common.ErrInternalServer.WithDetails("search overlay has unexpected type")
	}
	return o, nil
}

type SetQueryRequest struct {
	Query string `json:"query"`
}

type KeyPressRequest struct {
	Key string `json:"key" binding:"required"`
}

type SelectRequest struct {
	Category string `json:"category" binding:"required"`
	Title    string `json:"title" binding:"required"`
}

type SuggestionRequest struct {
	Term string `json:"term" binding:"required"`
}

// SelectResponse carries the chosen entity and the overlay after selection.
type SelectResponse struct {
	Selected EntityResponse  `json:"selected"`
	Overlay  OverlayResponse `json:"overlay"`
}

// Handler serves the stateless search endpoint and the per-session overlay.
type Handler struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewHandler creates a new search handler.
func NewHandler(cat *catalog.Catalog, logger *zap.Logger) *Handler {
	return &Handler{
		catalog: cat,
		logger:  logger.Named("search"),
	}
}

// RegisterRoutes sets up the routes for search operations. sessionMW binds the
// caller's overlay into the request context.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, sessionMW gin.HandlerFunc) {
	searchGroup := router.Group("/search")
	{
		searchGroup.GET("", h.search)

		overlayGroup := searchGroup.Group("")
		overlayGroup.Use(sessionMW)
		{
			overlayGroup.PUT("/query", h.setQuery)
			overlayGroup.GET("/overlay", h.getOverlay)
			overlayGroup.POST("/overlay/open", h.openOverlay)
			overlayGroup.POST("/overlay/close", h.closeOverlay)
			overlayGroup.POST("/overlay/clear", h.clearQuery)
			overlayGroup.POST("/overlay/keys", h.keyPress)
			overlayGroup.POST("/overlay/select", h.selectResult)
			overlayGroup.POST("/overlay/suggestion", h.pickSuggestion)
		}
	}
}

func (h *Handler) search(c *gin.Context) {
	result := Run(h.catalog, c.Query("q"))
	common.RespondOK(c, "Search completed.", ToResultResponse(result))
}

func (h *Handler) getOverlay(c *gin.Context) {
	o, err := OverlayFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Search overlay retrieved.", ToOverlayResponse(o.State()))
}

func (h *Handler) openOverlay(c *gin.Context) {
	o, err := OverlayFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Search overlay opened.", ToOverlayResponse(o.Open()))
}

func (h *Handler) closeOverlay(c *gin.Context) {
	o, err := OverlayFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Search overlay closed.", ToOverlayResponse(o.Close()))
}

func (h *Handler) clearQuery(c *gin.Context) {
	o, err := OverlayFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Search query cleared.", ToOverlayResponse(o.Clear()))
}

func (h *Handler) setQuery(c *gin.Context) {
	o, err := OverlayFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req SetQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Set query: invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	common.RespondOK(c, "Search query updated.", ToOverlayResponse(o.SetQuery(req.Query)))
}

func (h *Handler) keyPress(c *gin.Context) {
	o, err := OverlayFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req KeyPressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	common.RespondOK(c, "Key handled.", ToOverlayResponse(o.KeyPress(req.Key)))
}

func (h *Handler) pickSuggestion(c *gin.Context) {
	o, err := OverlayFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	common.RespondOK(c, "Suggestion applied.", ToOverlayResponse(o.PickSuggestion(req.Term)))
}

func (h *Handler) selectResult(c *gin.Context) {
	o, err := OverlayFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	kind, ok := catalog.ParseKind(req.Category)
	if !ok {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Unknown result category."))
		return
	}
	selected, state, ok := o.Select(kind, req.Title)
	if !ok {
		common.RespondWithError(c, common.ErrNotFound.WithDetails("No such result for the current query."))
		return
	}
	common.RespondOK(c, "Result selected.", SelectResponse{
		Selected: EntityResponse{Entity: selected, Appearance: AppearanceOf(selected.Kind)},
		Overlay:  ToOverlayResponse(state),
	})
}
