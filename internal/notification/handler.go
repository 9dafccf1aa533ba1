package notification

import (
	"strconv"
	"time"

	"university_portal_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BoardKey is the gin context key under which the session middleware stores the caller's *Board.
const BoardKey = "notificationBoard"

// BoardFromContext returns the session's board.
func BoardFromContext(c *gin.Context) (*Board, error) {
	v, ok := c.Get(BoardKey)
	if !ok {
		return nil, common.ErrInternalServer.WithDetails("notification board not bound to request")
	}
	b, ok := v.(*Board)
	if !ok {
		return nil, common.ErrInternalServer.WithDetails("notification board has unexpected type")
	}
	return b, nil
}

type SetCategoryRequest struct {
	Category string `json:"category" binding:"required,oneof=all academic financial events system"`
}

type Handler struct {
	logger *zap.Logger
	stream *Streamer
}

func NewHandler(logger *zap.Logger) *Handler {
	named := logger.Named("notification")
	return &Handler{
		logger: named,
		stream: NewStreamer(named),
	}
}

// RegisterRoutes sets up the routes for notification operations.
// All routes in this group are bound to the caller's session.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, sessionMW gin.HandlerFunc) {
	group := router.Group("/notifications")
	group.Use(sessionMW)
	{
		group.GET("", h.getNotifications)
		group.PUT("/category", h.setCategory)
		group.GET("/badges", h.getBadges)
		group.GET("/stream", h.streamBadges)
		group.POST("/mark-all-read", h.markAllAsRead)
		group.POST("/:notification_id/mark-read", h.markAsRead)
		group.DELETE("/:notification_id", h.deleteNotification)
	}
}

func (h *Handler) getNotifications(c *gin.Context) {
	board, err := BoardFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if raw, ok := c.GetQuery("category"); ok {
		cat, valid := ParseCategory(raw)
		if !valid {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("Unknown notification category."))
			return
		}
		board.SetCategory(cat)
	}
	common.RespondOK(c, "Notifications retrieved successfully.", board.View())
}

func (h *Handler) setCategory(c *gin.Context) {
	board, err := BoardFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req SetCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	cat, _ := ParseCategory(req.Category)
	board.SetCategory(cat)
	common.RespondOK(c, "Notification category selected.", board.View())
}

func (h *Handler) getBadges(c *gin.Context) {
	board, err := BoardFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Unread counts retrieved.", board.Badges())
}

func (h *Handler) markAllAsRead(c *gin.Context) {
	board, err := BoardFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	changed := board.MarkAllRead()
	h.logger.Debug("Marked all notifications read", zap.Int("changed", changed))
	common.RespondOK(c, "All notifications marked as read successfully.", board.View())
}

func (h *Handler) markAsRead(c *gin.Context) {
	board, err := BoardFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	id, err := strconv.Atoi(c.Param("notification_id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid notification ID format."))
		return
	}
	board.MarkRead(id)
	common.RespondOK(c, "Notification marked as read successfully.", board.View())
}

func (h *Handler) deleteNotification(c *gin.Context) {
	board, err := BoardFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	id, err := strconv.Atoi(c.Param("notification_id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid notification ID format."))
		return
	}
	board.Delete(id)
	common.RespondOK(c, "Notification deleted successfully.", board.View())
}

func (h *Handler) streamBadges(c *gin.Context) {
	board, err := BoardFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	h.stream.Serve(c.Writer, c.Request, board, sessionActivity(c))
}

// activityRecorder is implemented by the session bound to the request.
type activityRecorder interface {
	Touch(now time.Time)
}

// sessionActivity keeps the caller's session fresh while its stream is open.
func sessionActivity(c *gin.Context) func() {
	v, ok := c.Get(common.SessionKey)
	if !ok {
		return nil
	}
	rec, ok := v.(activityRecorder)
	if !ok {
		return nil
	}
	return func() { rec.Touch(time.Now()) }
}
