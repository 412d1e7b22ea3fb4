package store

import "fyne.io/fyne/v2"

// Preferences adapts fyne application preferences to Store. Fyne persists
// preferences per application id, which gives the desktop app the same
// lifetime the browser's local storage had.
type Preferences struct {
	prefs fyne.Preferences
}

// NewPreferences wraps the preferences of app.
func NewPreferences(app fyne.App) *Preferences {
	return &Preferences{prefs: app.Preferences()}
}

// Get implements Store. Fyne does not distinguish an empty string from a
// missing key, so an empty value is reported as absent.
func (p *Preferences) Get(key string) (string, bool) {
	v := p.prefs.String(key)
	if v == "" {
		return "", false
	}
	return v, true
}

// Set implements Store.
func (p *Preferences) Set(key, value string) error {
	p.prefs.SetString(key, value)
	return nil
}
