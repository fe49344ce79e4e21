package ir

// Version constants for the stored pipeline format and the tool.
const (
	// FormatVersion is the stored pipeline format version.
	FormatVersion = "1"

	// ToolVersion is the hyperpipe version.
	ToolVersion = "0.1.0"
)
