package styles

const (
	AppIcon string = "▣"

	CheckIcon   string = "✓"
	ErrorIcon   string = "✖"
	WarningIcon string = "⚠"
	InfoIcon    string = "ℹ"
	LinkIcon    string = "↗"
	SaveIcon    string = "↓"
	CopyIcon    string = "⧉"
	ThemeIcon   string = "◐"
)
