// Package address validates operator-supplied host addresses and splits
// them into the bare-IP and ip:port forms used across the managed files.
package address

import (
	"regexp"
	"strconv"
	"strings"
)

var ipv4Pattern = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}(:\d+)?$`)

// hextet is one group of an IPv6 literal.
const hextet = `[0-9a-fA-F]{1,4}`

// ipv6Pattern accepts the 8-group form and every single "::" compression.
var ipv6Pattern = regexp.MustCompile(strings.Join([]string{
	`^(` + hextet + `:){7}` + hextet + `$`,
	`^(` + hextet + `:){1,7}:$`,
	`^:((:` + hextet + `){1,7}|:)$`,
	`^` + hextet + `:((:` + hextet + `){1,6})$`,
	`^(` + hextet + `:){1,2}(:` + hextet + `){1,5}$`,
	`^(` + hextet + `:){1,3}(:` + hextet + `){1,4}$`,
	`^(` + hextet + `:){1,4}(:` + hextet + `){1,3}$`,
	`^(` + hextet + `:){1,5}(:` + hextet + `){1,2}$`,
	`^(` + hextet + `:){1,6}:` + hextet + `$`,
}, "|"))

// Validate reports whether addr is an IPv4 address, optionally followed by
// ":port", with every octet in [0,255]. IPv6 literals are accepted only when
// allowIPv6 is set.
func Validate(addr string, allowIPv6 bool) bool {
	if ipv4Pattern.MatchString(addr) {
		ip, _, _ := strings.Cut(addr, ":")
		for _, octet := range strings.Split(ip, ".") {
			n, err := strconv.Atoi(octet)
			if err != nil || n < 0 || n > 255 {
				return false
			}
		}
		return true
	}
	return allowIPv6 && ipv6Pattern.MatchString(addr)
}

// HasPort reports whether an IPv4 host string carries a ":port" suffix.
func HasPort(host string) bool {
	return strings.Contains(host, ":")
}

// Split returns the bare IP of host and the ip:port form, appending
// defaultPort when host has no port of its own.
func Split(host string, defaultPort int) (base, withPort string) {
	if ip, _, ok := strings.Cut(host, ":"); ok {
		return ip, host
	}
	return host, host + ":" + strconv.Itoa(defaultPort)
}

// HostOf strips a trailing ":port" from a target string. IPv6 literals in
// brackets lose their brackets; bare IPv6 literals are returned unchanged.
func HostOf(target string) string {
	if strings.HasPrefix(target, "[") {
		if end := strings.Index(target, "]"); end > 0 {
			return target[1:end]
		}
	}
	if strings.Count(target, ":") == 1 {
		ip, _, _ := strings.Cut(target, ":")
		return ip
	}
	return target
}
