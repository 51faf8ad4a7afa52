package ip2wlib

import "regexp"

const (
	octetPattern = `(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)`

	// RoutePrefix is a path prefix which is handled by Pipeline.
	RoutePrefix = "/ip2w/"
)

var pathRegexp = regexp.MustCompile(
	`^/?ip2w/((?:` + octetPattern + `\.){3}` + octetPattern + `)/?$`)

// MatchPath extracts a dotted-quad IPv4 address from a request path like
// /ip2w/8.8.8.8 or /ip2w/8.8.8.8/. Each octet has to be in 0-255 range.
// Anything else does not match.
func MatchPath(path string) (string, bool) {
	groups := pathRegexp.FindStringSubmatch(path)
	if groups == nil {
		return "", false
	}

	return groups[1], true
}
