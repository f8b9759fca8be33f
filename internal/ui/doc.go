// Package ui provides terminal UI components for pem's CLI output.
//
// The package includes a spinner shown while Prometheus restarts, the host
// inventory table, an interactive host picker and styled text output using
// the Lip Gloss library.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Successful operations, present entries
//	ColorError     (red)    - Failures and errors
//	ColorWarning   (yellow) - Warnings and incomplete hosts
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//
// Use DisableColors() to switch to monochrome output (for --no-color flag).
//
// # Spinner Usage
//
//	s := ui.NewSpinner(os.Stderr, "Restarting Prometheus", isTTY)
//	s.Start()
//	// ... do work ...
//	s.Success() // or s.Fail()
//
// Without a terminal only the final status line is written.
package ui
