// Package navigation describes the portal's routing surface: the named views,
// the in-page anchors of the home view and the navigation bar links.
package navigation

import "strings"

// View is a page bound to a path.
type View struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Anchor is a section of a view reached by fragment.
type Anchor struct {
	ID   string `json:"id"`
	View string `json:"view"`
}

// Link is one navigation bar entry. Anchor links scroll within the home view.
type Link struct {
	Name     string `json:"name"`
	Href     string `json:"href"`
	IsRoute  bool   `json:"is_route"`
	IsActive bool   `json:"is_active"`
}

var views = []View{
	{Name: "home", Path: "/"},
	{Name: "account", Path: "/account"},
	{Name: "notifications", Path: "/notifications"},
	{Name: "academics", Path: "/academics"},
	{Name: "admissions", Path: "/admissions"},
	{Name: "campus", Path: "/campus"},
}

var anchors = []Anchor{
	{ID: "dashboard", View: "home"},
	{ID: "contact", View: "home"},
	{ID: "admissions", View: "home"},
	{ID: "campus", View: "home"},
}

var links = []Link{
	{Name: "Home", Href: "/", IsRoute: true},
	{Name: "Dashboard", Href: "/#dashboard"},
	{Name: "Academics", Href: "/academics", IsRoute: true},
	{Name: "Admissions", Href: "/admissions", IsRoute: true},
	{Name: "Campus Life", Href: "/campus", IsRoute: true},
	{Name: "Contact", Href: "/#contact"},
}

// Table is the whole routing surface as seen from one location.
type Table struct {
	Views   []View   `json:"views"`
	Anchors []Anchor `json:"anchors"`
	Links   []Link   `json:"links"`
}

// Views returns the named views in declaration order.
func Views() []View { return append([]View(nil), views...) }

// Anchors returns the in-page anchors.
func Anchors() []Anchor { return append([]Anchor(nil), anchors...) }

// TableFor builds the table with route links matching currentPath marked active.
func TableFor(currentPath string) Table {
	t := Table{Views: Views(), Anchors: Anchors(), Links: make([]Link, len(links))}
	for i, l := range links {
		l.IsActive = l.IsRoute && l.Href == currentPath
		t.Links[i] = l
	}
	return t
}

// Location is a resolved href.
type Location struct {
	View   View   `json:"view"`
	Anchor string `json:"anchor,omitempty"`
}

// Resolve maps an href such as "/academics" or "/#contact" to its view and anchor.
// Unknown paths and anchors are rejected.
func Resolve(href string) (Location, bool) {
	path, fragment, _ := strings.Cut(href, "#")
	if path == "" {
		path = "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	var loc Location
	found := false
	for _, v := range views {
		if v.Path == path {
			loc.View, found = v, true
			break
		}
	}
	if !found {
		return Location{}, false
	}
	if fragment == "" {
		return loc, true
	}
	for _, a := range anchors {
		if a.ID == fragment && a.View == loc.View.Name {
			loc.Anchor = a.ID
			return loc, true
		}
	}
	return Location{}, false
}
