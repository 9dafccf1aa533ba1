// Package seed holds the static portal tables (search catalog, suggestions, notifications,
// programs, the student profile, preference options) as embedded YAML.
package seed

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var files embed.FS

type CatalogEntry struct {
	Kind     string `yaml:"kind"`
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Link     string `yaml:"link"`
}

type Suggestions struct {
	Recent   []string `yaml:"recent"`
	Trending []string `yaml:"trending"`
}

type Notification struct {
	ID          int    `yaml:"id"`
	Category    string `yaml:"category"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Time        string `yaml:"time"`
	Read        bool   `yaml:"read"`
	Priority    string `yaml:"priority"`
}

type Program struct {
	ID         uint   `yaml:"id"`
	Level      string `yaml:"level"`
	Title      string `yaml:"title"`
	Department string `yaml:"department"`
	Duration   string `yaml:"duration"`
	Credits    int    `yaml:"credits"`
	Popular    bool   `yaml:"popular"`
}

type Preference struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	DefaultOn   bool   `yaml:"default_on"`
}

type Profile struct {
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	Email       string `yaml:"email"`
	Phone       string `yaml:"phone"`
	Address     string `yaml:"address"`
	DateOfBirth string `yaml:"date_of_birth"`
	StudentID   string `yaml:"student_id"`
	Program     string `yaml:"program"`
	Year        string `yaml:"year"`
	GPA         string `yaml:"gpa"`
}

// Data is the parsed content of every seed file.
type Data struct {
	Catalog       []CatalogEntry
	Suggestions   Suggestions
	Notifications []Notification
	Programs      []Program
	Preferences   []Preference
	Profile       Profile
}

// Load parses the embedded seed files.
func Load() (*Data, error) {
	var catalogFile struct {
		Entries     []CatalogEntry `yaml:"entries"`
		Suggestions Suggestions    `yaml:"suggestions"`
	}
	if err := decode("data/catalog.yaml", &catalogFile); err != nil {
		return nil, err
	}

	var notificationFile struct {
		Notifications []Notification `yaml:"notifications"`
	}
	if err := decode("data/notifications.yaml", &notificationFile); err != nil {
		return nil, err
	}

	var academicsFile struct {
		Programs []Program `yaml:"programs"`
	}
	if err := decode("data/academics.yaml", &academicsFile); err != nil {
		return nil, err
	}

	var accountFile struct {
		Profile     Profile      `yaml:"profile"`
		Preferences []Preference `yaml:"preferences"`
	}
	if err := decode("data/account.yaml", &accountFile); err != nil {
		return nil, err
	}

	return &Data{
		Catalog:       catalogFile.Entries,
		Suggestions:   catalogFile.Suggestions,
		Notifications: notificationFile.Notifications,
		Programs:      academicsFile.Programs,
		Preferences:   accountFile.Preferences,
		Profile:       accountFile.Profile,
	}, nil
}

func decode(name string, out interface{}) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading seed file %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parsing seed file %s: %w", name, err)
	}
	return nil
}
