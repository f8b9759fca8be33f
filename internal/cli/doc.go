// Package cli implements the pem command-line interface.
//
// Cobra commands parse flags and hand off to an App, which owns the settings,
// the output writer, the prompter and the restart step. The file-level work
// lives in other internal packages:
//
//   - promconfig: the Prometheus scrape config, edited as a YAML node tree
//   - targetlist: the blackbox IPv4/IPv6 target lists
//   - targets: add/remove across all three files
//   - activate: restarting Prometheus afterwards
//   - doctor: read-only diagnostics behind pem doctor
//
// # Command Structure
//
//	pem                    - Interactive menu (same as pem menu)
//	pem add                - Start monitoring a host
//	pem remove [ip]        - Stop monitoring a host
//	pem list               - Show monitored hosts
//	pem doctor [--fix]     - Check settings and managed files
//	pem version            - Print build information
//	pem completion <shell> - Shell completion script
//
// # Flow of a Change
//
//  1. Load settings (flags, PEM_* environment, .pem.yaml)
//  2. Ask for missing input (huh forms, only on a terminal)
//  3. Load the Prometheus config and apply the change to it and to both
//     target lists
//  4. Save the Prometheus config, backing up the previous version
//  5. Restart Prometheus, unless nothing changed or --no-restart is set
//
// With --dry-run the change is computed and logged but nothing is written.
//
// # Error Handling
//
// Commands return *errors.Error values with a code, a message and a
// suggestion. Execute prints them and exits with status 1. In the menu, only
// errors that would make every action fail (see errors.IsFatal) end the loop.
package cli
