package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconFound   = "✓" // name resolved to at least one finding
	IconMissing = "✗" // nothing found anywhere
)
