package models

// TitleOptions holds the generated title candidates in generation order plus
// the user's choice. A custom title always wins over a selected index when
// both are set (last writer clears the other, but old snapshots may carry
// both).
type TitleOptions struct {
	Options       []string `json:"options"`
	SelectedIndex *int     `json:"selected_index,omitempty"`
	CustomTitle   *string  `json:"custom_title,omitempty"`
}

// EffectiveTitle resolves the title the options currently determine.
func (t *TitleOptions) EffectiveTitle() (string, bool) {
	if t == nil {
		return "", false
	}
	if t.CustomTitle != nil && *t.CustomTitle != "" {
		return *t.CustomTitle, true
	}
	if t.SelectedIndex != nil && *t.SelectedIndex >= 0 && *t.SelectedIndex < len(t.Options) {
		return t.Options[*t.SelectedIndex], true
	}
	return "", false
}
