package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Operation completed
	SymbolFail     = "✗" // Operation failed
	SymbolPending  = "○" // Nothing done yet
	SymbolComplete = "●" // Present / done
	SymbolWarning  = "!" // Needs attention
)
