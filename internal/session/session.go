// Package session owns the per-browser-session state of the portal: the search
// overlay, the notification board, the contact form and the account page.
package session

import (
	"fmt"
	"sync"
	"time"

	"university_portal_backend/internal/account"
	"university_portal_backend/internal/catalog"
	"university_portal_backend/internal/common"
	"university_portal_backend/internal/contact"
	"university_portal_backend/internal/notification"
	"university_portal_backend/internal/search"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Session is the single owner of one visitor's view state. Components are only
// mutated through their own methods.
type Session struct {
	ID          string
	Overlay     *search.Overlay
	Board       *notification.Board
	Form        *contact.Form
	Preferences *account.Preferences
	Profile     *account.ProfileEditor

	mu        sync.Mutex
	createdAt time.Time
	lastSeen  time.Time
	closed    bool
}

// Touch records activity.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

// LastSeen is the time of the most recent request.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Idle reports whether the session has seen no request for longer than timeout and
// has no open badge stream.
func (s *Session) Idle(now time.Time, timeout time.Duration) bool {
	if s.Board.Subscribers() > 0 {
		return false
	}
	return now.Sub(s.LastSeen()) > timeout
}

// CreatedAt is when the session was opened.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close tears the session down: pending timers are cancelled and badge streams
// are ended. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.Form.Close()
	s.Profile.Close()
	s.Board.Close()
}

// Bind exposes the session and its components to downstream handlers.
func (s *Session) Bind(c *gin.Context) {
	c.Set(common.SessionKey, s)
	c.Set(search.OverlayKey, s.Overlay)
	c.Set(notification.BoardKey, s.Board)
	c.Set(contact.FormKey, s.Form)
	c.Set(account.PreferencesKey, s.Preferences)
	c.Set(account.ProfileKey, s.Profile)
}

// FromContext returns the session bound to the request, if any.
func FromContext(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(common.SessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok
}

// Factory builds fresh sessions from the shared read-only tables.
type Factory struct {
	catalog       *catalog.Catalog
	notifications []notification.Notification
	options       []account.Option
	submitDelay   time.Duration
	profile       account.Profile
	savedNotice   time.Duration
	logger        *zap.Logger
}

// FactoryOption customises a Factory.
type FactoryOption func(*Factory)

// WithProfile seeds every session's profile card. The saved notice clears after savedNotice.
func WithProfile(profile account.Profile, savedNotice time.Duration) FactoryOption {
	return func(f *Factory) {
		f.profile = profile
		f.savedNotice = savedNotice
	}
}

// NewFactory validates the seed tables once so that building a session cannot fail on them later.
func NewFactory(cat *catalog.Catalog, notifications []notification.Notification, options []account.Option, submitDelay time.Duration, logger *zap.Logger, opts ...FactoryOption) (*Factory, error) {
	if cat == nil {
		return nil, fmt.Errorf("session factory needs a catalog")
	}
	if _, err := notification.NewBoard(notifications); err != nil {
		return nil, fmt.Errorf("invalid notification seed: %w", err)
	}
	f := &Factory{
		catalog:       cat,
		notifications: append([]notification.Notification(nil), notifications...),
		options:       append([]account.Option(nil), options...),
		submitDelay:   submitDelay,
		savedNotice:   account.DefaultSavedNotice,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// New creates a session with its own copy of every mutable component.
func (f *Factory) New(id string, now time.Time) (*Session, error) {
	board, err := notification.NewBoard(f.notifications)
	if err != nil {
		return nil, err
	}
	logger := f.logger.With(zap.String("session_id", id))
	return &Session{
		ID:          id,
		Overlay:     search.NewOverlay(f.catalog),
		Board:       board,
		Form:        contact.NewForm(f.submitDelay, logger.Named("contact")),
		Preferences: account.NewPreferences(f.options),
		Profile:     account.NewProfileEditor(f.profile, f.savedNotice, logger.Named("profile")),
		createdAt:   now,
		lastSeen:    now,
	}, nil
}
