package models

import "time"

// Theme is a named template bundle. Themes are not scoped to a web log; one
// theme may serve many tenants and is therefore excluded from per-tenant
// backups.
type Theme struct {
	Id        string          `json:"Id"`
	Name      string          `json:"Name"`
	Version   string          `json:"Version"`
	Templates []ThemeTemplate `json:"Templates"`
}

type ThemeTemplate struct {
	Name string `json:"Name"`
	Text string `json:"Text"`
}

// WithoutTemplateText copies the theme keeping template names but dropping
// their text, the shape used by list views.
func (t Theme) WithoutTemplateText() Theme {
	out := t
	out.Templates = make([]ThemeTemplate, len(t.Templates))
	for i, tpl := range t.Templates {
		out.Templates[i] = ThemeTemplate{Name: tpl.Name}
	}
	return out
}

// ThemeAsset is a binary file belonging to a theme, keyed by (theme, path).
type ThemeAsset struct {
	ThemeId   string    `json:"ThemeId"`
	Path      string    `json:"Path"`
	UpdatedOn time.Time `json:"UpdatedOn"`
	Data      []byte    `json:"Data"`
}
