package contact

import (
	"university_portal_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FormKey is the gin context key under which the session middleware stores the caller's *Form.
const FormKey = "contactForm"

// FormFromContext returns the session's contact form.
func FormFromContext(c *gin.Context) (*Form, error) {
	v, ok := c.Get(FormKey)
	if !ok {
		return nil, common.ErrInternalServer.WithDetails("contact form not bound to request")
	}
	f, ok := v.(*Form)
	if !ok {
		return nil, common.ErrInternalServer.WithDetails("contact form has unexpected type")
	}
	return f, nil
}

// Department is one option of the department select.
type Department struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Departments lists the select options in display order; an empty value means none chosen.
var Departments = []Department{
	{"admissions", "Admissions"},
	{"academics", "Academics"},
	{"financial-aid", "Financial Aid"},
	{"student-support", "Student Support"},
	{"it", "IT Support"},
	{"other", "Other"},
}

type SubmitRequest struct {
	Name       string `json:"name" binding:"required,max=120"`
	Email      string `json:"email" binding:"required,email"`
	Subject    string `json:"subject" binding:"required,max=200"`
	Department string `json:"department" binding:"omitempty,oneof=admissions academics financial-aid student-support it other"`
	Message    string `json:"message" binding:"required,max=5000"`
}

func (r SubmitRequest) toSubmission() Submission {
	return Submission{
		Name:       r.Name,
		Email:      r.Email,
		Subject:    r.Subject,
		Department: r.Department,
		Message:    r.Message,
	}
}

// FormResponse pairs the form state with its select options.
type FormResponse struct {
	State
	Departments []Department `json:"departments"`
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger.Named("contact")}
}

// RegisterRoutes sets up the routes for the contact form.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, sessionMW gin.HandlerFunc) {
	group := router.Group("/contact")
	group.Use(sessionMW)
	{
		group.GET("", h.getForm)
		group.POST("/submit", h.submit)
		group.POST("/reset", h.reset)
	}
}

func (h *Handler) getForm(c *gin.Context) {
	form, err := FormFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Contact form retrieved.", FormResponse{State: form.State(), Departments: Departments})
}

func (h *Handler) submit(c *gin.Context) {
	form, err := FormFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Contact submit: invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	st := form.Submit(req.toSubmission())
	common.RespondAccepted(c, "Contact message is being sent.", FormResponse{State: st, Departments: Departments})
}

func (h *Handler) reset(c *gin.Context) {
	form, err := FormFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Contact form reset.", FormResponse{State: form.Reset(), Departments: Departments})
}
