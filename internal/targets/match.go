package targets

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/pem/internal/address"
)

// MatchMode selects how a host is compared against stored targets.
type MatchMode string

const (
	// MatchSubstring treats a target as matching when it contains the host
	// text anywhere. 10.0.0.1 therefore also matches 10.0.0.10; kept as the
	// default because existing files were written under this rule.
	MatchSubstring MatchMode = "substring"

	// MatchExact compares whole hosts: the target's host part (port
	// stripped) against a bare IP, or the full target against ip:port.
	MatchExact MatchMode = "exact"
)

// ParseMatchMode validates a configured mode. An empty string is the default.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case "", MatchSubstring:
		return MatchSubstring, nil
	case MatchExact:
		return MatchExact, nil
	}
	return "", fmt.Errorf("unknown match mode %q (want %q or %q)", s, MatchSubstring, MatchExact)
}

// hasIP reports whether target refers to the bare ip.
func (m MatchMode) hasIP(target, ip string) bool {
	if m == MatchExact {
		return address.HostOf(target) == ip
	}
	return strings.Contains(target, ip)
}

// hasHostPort reports whether target refers to hostWithPort.
func (m MatchMode) hasHostPort(target, hostWithPort string) bool {
	if m == MatchExact {
		return target == hostWithPort
	}
	return strings.Contains(target, hostWithPort)
}

// anyHostPort reports whether any of targets refers to hostWithPort.
func (m MatchMode) anyHostPort(targets []string, hostWithPort string) bool {
	for _, t := range targets {
		if m.hasHostPort(t, hostWithPort) {
			return true
		}
	}
	return false
}
