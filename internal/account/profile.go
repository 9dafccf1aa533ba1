package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"university_portal_backend/internal/seed"

	"go.uber.org/zap"
)

// DefaultSavedNotice is how long the saved confirmation stays up after a save.
const DefaultSavedNotice = 3 * time.Second

const savedMessage = "Profile updated successfully!"

// ErrNotEditing is returned by Save when the profile is not in edit mode.
var ErrNotEditing = errors.New("profile is not in edit mode")

// Profile is the student's personal record. The academic fields are read-only.
type Profile struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth"`

	StudentID string `json:"student_id"`
	Program   string `json:"program"`
	Year      string `json:"year"`
	GPA       string `json:"gpa"`
}

// ProfileFromSeed checks the seeded record has the fields the page always shows.
func ProfileFromSeed(row seed.Profile) (Profile, error) {
	p := Profile{
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Email:       row.Email,
		Phone:       row.Phone,
		Address:     row.Address,
		DateOfBirth: row.DateOfBirth,
		StudentID:   row.StudentID,
		Program:     row.Program,
		Year:        row.Year,
		GPA:         row.GPA,
	}
	switch {
	case p.FirstName == "" || p.LastName == "":
		return Profile{}, fmt.Errorf("profile has no name")
	case p.Email == "":
		return Profile{}, fmt.Errorf("profile has no email")
	case p.StudentID == "":
		return Profile{}, fmt.Errorf("profile has no student id")
	}
	return p, nil
}

// ProfileUpdate carries the editable fields.
type ProfileUpdate struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	DateOfBirth string
}

// ProfileState is a snapshot of the profile card.
type ProfileState struct {
	Profile Profile `json:"profile"`
	Editing bool    `json:"editing"`
	Saved   bool    `json:"saved"`
	Message string  `json:"message,omitempty"`
}

// ProfileEditor is one session's profile card: view mode, edit mode, and a saved
// notice that clears itself. Close cancels a pending clear.
type ProfileEditor struct {
	mu       sync.Mutex
	savedFor time.Duration
	logger   *zap.Logger
	profile  Profile
	editing  bool
	saved    bool
	gen      uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// NewProfileEditor starts in view mode showing profile.
func NewProfileEditor(profile Profile, savedFor time.Duration, logger *zap.Logger) *ProfileEditor {
	ctx, cancel := context.WithCancel(context.Background())
	return &ProfileEditor{
		savedFor: savedFor,
		logger:   logger,
		profile:  profile,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// State returns the current snapshot.
func (e *ProfileEditor) State() ProfileState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Edit switches to edit mode. The saved notice, if showing, is left to expire.
func (e *ProfileEditor) Edit() ProfileState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.editing = true
	}
	return e.snapshot()
}

// Cancel leaves edit mode without changing the profile.
func (e *ProfileEditor) Cancel() ProfileState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.editing = false
	}
	return e.snapshot()
}

// Save applies the editable fields, leaves edit mode and raises the saved notice.
// A second save while the notice is up restarts its countdown.
func (e *ProfileEditor) Save(u ProfileUpdate) (ProfileState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || !e.editing {
		return e.snapshot(), ErrNotEditing
	}
	e.profile.FirstName = u.FirstName
	e.profile.LastName = u.LastName
	e.profile.Email = u.Email
	e.profile.Phone = u.Phone
	e.profile.Address = u.Address
	e.profile.DateOfBirth = u.DateOfBirth
	e.editing = false
	e.saved = true
	e.gen++
	gen := e.gen

	e.wg.Add(1)
	go e.expire(gen)

	e.logger.Info("Profile updated", zap.String("student_id", e.profile.StudentID))
	return e.snapshot(), nil
}

// Close cancels a pending notice expiry and waits for it to unwind.
func (e *ProfileEditor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.cancel()
	e.mu.Unlock()

	e.wg.Wait()
}

func (e *ProfileEditor) expire(gen uint64) {
	defer e.wg.Done()

	timer := time.NewTimer(e.savedFor)
	defer timer.Stop()

	select {
	case <-timer.C:
		e.clearSaved(gen)
	case <-e.ctx.Done():
	}
}

func (e *ProfileEditor) clearSaved(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.gen {
		return
	}
	e.saved = false
}

func (e *ProfileEditor) snapshot() ProfileState {
	st := ProfileState{Profile: e.profile, Editing: e.editing, Saved: e.saved}
	if e.saved {
		st.Message = savedMessage
	}
	return st
}
