// File: internal/search/presentation.go
package search

import "university_portal_backend/internal/catalog"

// Appearance is how the browser draws an entity of a given kind.
type Appearance struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var appearances = map[catalog.Kind]Appearance{
	catalog.KindCourse:  {Icon: "book-open", Color: "text-blue-600"},
	catalog.KindFaculty: {Icon: "users", Color: "text-purple-600"},
	catalog.KindProgram: {Icon: "graduation-cap", Color: "text-emerald-600"},
	catalog.KindPage:    {Icon: "chevron-right", Color: "text-orange-600"},
}

var defaultAppearance = Appearance{Icon: "search", Color: "text-gray-500"}

// AppearanceOf looks up the rendering choice for a kind.
func AppearanceOf(kind catalog.Kind) Appearance {
	if a, ok := appearances[kind]; ok {
		return a
	}
	return defaultAppearance
}

// EntityResponse is an entity decorated for display.
type EntityResponse struct {
	catalog.Entity
	Appearance Appearance `json:"appearance"`
}

// GroupResponse is a result group decorated for display.
type GroupResponse struct {
	Kind       catalog.Kind     `json:"category"`
	Label      string           `json:"label"`
	Appearance Appearance       `json:"appearance"`
	Entities   []EntityResponse `json:"entities"`
}

// ResultResponse is the API form of a Result.
type ResultResponse struct {
	Query        string          `json:"query"`
	Mode         string          `json:"mode"`
	Total        int             `json:"total"`
	Groups       []GroupResponse `json:"groups,omitempty"`
	Suggestions  *Suggestions    `json:"suggestions,omitempty"`
	EmptyMessage string          `json:"empty_message,omitempty"`
	EmptyHint    string          `json:"empty_hint,omitempty"`
}

// OverlayResponse is the API form of an OverlayState.
type OverlayResponse struct {
	Open   bool           `json:"open"`
	Query  string         `json:"query"`
	Result ResultResponse `json:"result"`
}

// ToResultResponse attaches appearances to every group and entity.
func ToResultResponse(r Result) ResultResponse {
	resp := ResultResponse{
		Query:        r.Query,
		Mode:         r.Mode,
		Total:        r.Total,
		Suggestions:  r.Suggestions,
		EmptyMessage: r.EmptyMessage,
		EmptyHint:    r.EmptyHint,
	}
	for _, g := range r.Groups {
		gr := GroupResponse{
			Kind:       g.Kind,
			Label:      g.Label,
			Appearance: AppearanceOf(g.Kind),
			Entities:   make([]EntityResponse, len(g.Entities)),
		}
		for i, e := range g.Entities {
			gr.Entities[i] = EntityResponse{Entity: e, Appearance: AppearanceOf(e.Kind)}
		}
		resp.Groups = append(resp.Groups, gr)
	}
	return resp
}

// ToOverlayResponse converts an overlay snapshot.
func ToOverlayResponse(s OverlayState) OverlayResponse {
	return OverlayResponse{Open: s.Open, Query: s.Query, Result: ToResultResponse(s.Result)}
}
