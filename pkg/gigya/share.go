package gigya

// ShareMode selects how the share widget presents providers.
type ShareMode string

const (
	ShareSimple      ShareMode = "simpleShare"
	ShareMultiSelect ShareMode = "multiSelect"
)

// ShareChoices returns the supported share modes with their display labels.
// The returned map is a fresh copy on every call.
func ShareChoices() map[ShareMode]string {
	return map[ShareMode]string{
		ShareSimple:      "Simple Share",
		ShareMultiSelect: "Multi Select",
	}
}

// IsShareValid reports whether key names a supported share mode.
func IsShareValid(key string) bool {
	switch ShareMode(key) {
	case ShareSimple, ShareMultiSelect:
		return true
	}
	return false
}

// Label returns the display label of the mode, or "" for unknown modes.
func (m ShareMode) Label() string {
	return ShareChoices()[m]
}
