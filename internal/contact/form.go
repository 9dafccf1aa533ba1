// Package contact implements the contact form lifecycle: editing, a simulated
// submission delay, then submitted.
package contact

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Status string

const (
	StatusEditing    Status = "editing"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
)

const confirmationMessage = "Thank you for reaching out. A member of our team will get back to you within 1–2 business days."

// Submission holds the five form fields.
type Submission struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Subject    string `json:"subject"`
	Department string `json:"department"`
	Message    string `json:"message"`
}

// State is a snapshot of the form.
type State struct {
	Status       Status      `json:"status"`
	Submission   *Submission `json:"submission,omitempty"`
	Confirmation string      `json:"confirmation,omitempty"`
}

// Form is one session's contact form. The pending delay is bound to the form's
// lifetime: Close cancels it and no completion lands afterwards.
type Form struct {
	mu         sync.Mutex
	delay      time.Duration
	logger     *zap.Logger
	status     Status
	submission *Submission
	gen        uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// NewForm returns a blank form whose submissions complete after delay.
func NewForm(delay time.Duration, logger *zap.Logger) *Form {
	ctx, cancel := context.WithCancel(context.Background())
	return &Form{
		delay:  delay,
		logger: logger,
		status: StatusEditing,
		ctx:    ctx,
		cancel: cancel,
	}
}

// State returns the current snapshot.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

// Submit moves an editing form to submitting and schedules the transition to
// submitted. In any other state, or after Close, it changes nothing.
func (f *Form) Submit(sub Submission) State {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.status != StatusEditing {
		return f.snapshot()
	}
	f.status = StatusSubmitting
	f.submission = &sub
	f.gen++
	gen := f.gen

	f.wg.Add(1)
	go f.await(gen)

	return f.snapshot()
}

// Reset returns the form to a blank editing state and discards any pending completion.
func (f *Form) Reset() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.status = StatusEditing
		f.submission = nil
		f.gen++
	}
	return f.snapshot()
}

// Close tears the form down, cancelling a pending delay and waiting for it to unwind.
func (f *Form) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.cancel()
	f.mu.Unlock()

	f.wg.Wait()
}

func (f *Form) await(gen uint64) {
	defer f.wg.Done()

	timer := time.NewTimer(f.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		f.complete(gen)
	case <-f.ctx.Done():
		f.logger.Debug("Contact submission cancelled before completion")
	}
}

func (f *Form) complete(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || gen != f.gen || f.status != StatusSubmitting {
		return
	}
	f.status = StatusSubmitted
	if f.submission != nil {
		f.logger.Info("Contact message submitted",
			zap.String("department", f.submission.Department),
			zap.String("subject", f.submission.Subject),
		)
	}
}

func (f *Form) snapshot() State {
	st := State{Status: f.status}
	if f.submission != nil {
		cp := *f.submission
		st.Submission = &cp
	}
	if f.status == StatusSubmitted {
		st.Confirmation = confirmationMessage
	}
	return st
}
