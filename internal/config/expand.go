package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax - just ~ for the current user.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path // Return unchanged if we can't get home
		}
		return filepath.Join(home, path[2:])
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}

// ExpandPath resolves a configured file path: ${HOME} and ${USER} are
// replaced, then a leading ~ is expanded.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.Contains(path, "${HOME}") {
		if home, err := os.UserHomeDir(); err == nil {
			path = strings.ReplaceAll(path, "${HOME}", home)
		}
	}
	if strings.Contains(path, "${USER}") {
		path = strings.ReplaceAll(path, "${USER}", getUser())
	}

	return ExpandTilde(path)
}

func getUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	if user := os.Getenv("USERNAME"); user != "" {
		return user
	}
	return "user"
}
