package account

import (
	"errors"
	"fmt"

	"university_portal_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PreferencesKey is the gin context key under which the session middleware stores the caller's *Preferences.
const PreferencesKey = "accountPreferences"

// PreferencesFromContext returns the session's preferences.
func PreferencesFromContext(c *gin.Context) (*Preferences, error) {
	v, ok := c.Get(PreferencesKey)
	if !ok {
		return nil, common.ErrInternalServer.WithDetails("preferences not bound to request")
	}
	p, ok := v.(*Preferences)
	if !ok {
		return nil, common.ErrInternalServer.WithDetails("preferences have unexpected type")
	}
	return p, nil
}

// ProfileKey is the gin context key under which the session middleware stores the caller's *ProfileEditor.
const ProfileKey = "accountProfile"

// ProfileFromContext returns the session's profile editor.
func ProfileFromContext(c *gin.Context) (*ProfileEditor, error) {
	v, ok := c.Get(ProfileKey)
	if !ok {
		return nil, common.ErrInternalServer.WithDetails("profile not bound to request")
	}
	e, ok := v.(*ProfileEditor)
	if !ok {
		return nil, common.ErrInternalServer.WithDetails("profile has unexpected type")
	}
	return e, nil
}

type UpdateProfileRequest struct {
	FirstName   string `json:"first_name" binding:"required,max=60"`
	LastName    string `json:"last_name" binding:"required,max=60"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"omitempty,max=32"`
	Address     string `json:"address" binding:"omitempty,max=200"`
	DateOfBirth string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
}

func (r UpdateProfileRequest) toUpdate() ProfileUpdate {
	return ProfileUpdate{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		DateOfBirth: r.DateOfBirth,
	}
}

type SetPreferenceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger.Named("account")}
}

// RegisterRoutes sets up the routes for the account profile and preferences.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, sessionMW gin.HandlerFunc) {
	profile := router.Group("/account/profile")
	profile.Use(sessionMW)
	{
		profile.GET("", h.getProfile)
		profile.PUT("", h.saveProfile)
		profile.POST("/edit", h.editProfile)
		profile.POST("/cancel", h.cancelEdit)
	}

	group := router.Group("/account/preferences")
	group.Use(sessionMW)
	{
		group.GET("", h.listPreferences)
		group.PUT("/:id", h.setPreference)
		group.POST("/reset", h.resetPreferences)
	}
}

func (h *Handler) getProfile(c *gin.Context) {
	editor, err := ProfileFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", editor.State())
}

func (h *Handler) editProfile(c *gin.Context) {
	editor, err := ProfileFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile is in edit mode.", editor.Edit())
}

func (h *Handler) cancelEdit(c *gin.Context) {
	editor, err := ProfileFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile edit cancelled.", editor.Cancel())
}

func (h *Handler) saveProfile(c *gin.Context) {
	editor, err := ProfileFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Profile save: invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	st, err := editor.Save(req.toUpdate())
	if errors.Is(err, ErrNotEditing) {
		common.RespondWithError(c, common.ErrConflict.WithDetails("Profile must be in edit mode before saving."))
		return
	}
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile updated successfully.", st)
}

func (h *Handler) listPreferences(c *gin.Context) {
	prefs, err := PreferencesFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Preferences retrieved successfully.", prefs.List())
}

func (h *Handler) setPreference(c *gin.Context) {
	prefs, err := PreferencesFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req SetPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindingError(err))
		return
	}
	id := c.Param("id")
	setting, ok := prefs.Set(id, *req.Enabled)
	if !ok {
		common.RespondWithError(c, common.ErrNotFound.WithDetails(fmt.Sprintf("Preference %q not found.", id)))
		return
	}
	common.RespondOK(c, "Preference updated successfully.", setting)
}

func (h *Handler) resetPreferences(c *gin.Context) {
	prefs, err := PreferencesFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	prefs.Reset()
	common.RespondOK(c, "Preferences restored to defaults.", prefs.List())
}
