// Package account holds the per-session account page state: the profile card and
// the notification preference toggles.
package account

import (
	"fmt"
	"sync"

	"university_portal_backend/internal/seed"
)

// Option is a notification channel the user can switch on or off.
type Option struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	DefaultOn   bool   `json:"default_on"`
}

// OptionsFromSeed validates seed rows. Ids must be present and unique.
func OptionsFromSeed(rows []seed.Preference) ([]Option, error) {
	out := make([]Option, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		if row.ID == "" {
			return nil, fmt.Errorf("preference %d (%q) has no id", i, row.Label)
		}
		if _, dup := seen[row.ID]; dup {
			return nil, fmt.Errorf("preference id %q is not unique", row.ID)
		}
		seen[row.ID] = struct{}{}
		out = append(out, Option{ID: row.ID, Label: row.Label, Description: row.Description, DefaultOn: row.DefaultOn})
	}
	return out, nil
}

// Setting is an option with its current value.
type Setting struct {
	Option
	Enabled bool `json:"enabled"`
}

// Preferences is one session's set of toggles, initialised from the option defaults.
type Preferences struct {
	mu      sync.Mutex
	options []Option
	enabled map[string]bool
}

// NewPreferences starts every option at its default.
func NewPreferences(options []Option) *Preferences {
	enabled := make(map[string]bool, len(options))
	for _, o := range options {
		enabled[o.ID] = o.DefaultOn
	}
	return &Preferences{options: options, enabled: enabled}
}

// List returns every setting in option order.
func (p *Preferences) List() []Setting {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Setting, len(p.options))
	for i, o := range p.options {
		out[i] = Setting{Option: o, Enabled: p.enabled[o.ID]}
	}
	return out
}

// Set changes one toggle. It reports false for an unknown id.
func (p *Preferences) Set(id string, on bool) (Setting, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, o := range p.options {
		if o.ID == id {
			p.enabled[id] = on
			return Setting{Option: o, Enabled: on}, true
		}
	}
	return Setting{}, false
}

// Reset restores every default.
func (p *Preferences) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, o := range p.options {
		p.enabled[o.ID] = o.DefaultOn
	}
}
