package styles

// Symbols holds the status markers used in tables and step output.
type Symbols struct {
	Default string // default account
	OK      string
	Warn    string
	Fail    string
	Key     string
}

var defaultSymbols = Symbols{
	Default: "★",
	OK:      "✓",
	Warn:    "⚠",
	Fail:    "✗",
	Key:     "⚿",
}

var nerdfontSymbols = Symbols{
	Default: "\uf005", // nf-fa-star
	OK:      "\uf00c", // nf-fa-check
	Warn:    "\uf071", // nf-fa-warning
	Fail:    "\uf00d", // nf-fa-times
	Key:     "\uf084", // nf-fa-key
}

var currentSymbols = defaultSymbols

// SetNerdfont enables or disables nerd font symbols
func SetNerdfont(enabled bool) {
	if enabled {
		currentSymbols = nerdfontSymbols
	} else {
		currentSymbols = defaultSymbols
	}
}

// CurrentSymbols returns the current symbol set
func CurrentSymbols() Symbols {
	return currentSymbols
}

// OK returns a colored success marker.
func OK() string {
	return SuccessStyle.Render(currentSymbols.OK)
}

// Warn returns a colored warning marker.
func Warn() string {
	return WarningStyle.Render(currentSymbols.Warn)
}

// Fail returns a colored failure marker.
func Fail() string {
	return ErrorStyle.Render(currentSymbols.Fail)
}

// DefaultMarker returns the marker for the default account, or "" when
// isDefault is false.
func DefaultMarker(isDefault bool) string {
	if !isDefault {
		return ""
	}
	return AccentStyle.Render(currentSymbols.Default)
}
