package confcore

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// sizePattern is the size-type grammar: a decimal integer followed by an
// optional unit suffix, base-1024 multipliers.
var sizePattern = regexp.MustCompile(`(?i)^([0-9]+)(kb|k|mb|m|gb|g|tb|t|pb|p|b)?$`)

var sizeMultiplier = map[string]int64{
	"":   1,
	"b":  1,
	"k":  1024,
	"kb": 1024,
	"m":  1024 * 1024,
	"mb": 1024 * 1024,
	"g":  1024 * 1024 * 1024,
	"gb": 1024 * 1024 * 1024,
	"t":  1024 * 1024 * 1024 * 1024,
	"tb": 1024 * 1024 * 1024 * 1024,
	"p":  1024 * 1024 * 1024 * 1024 * 1024,
	"pb": 1024 * 1024 * 1024 * 1024 * 1024,
}

// convertToByte parses a size-typed value into bytes: "1kb" is 1024, "2m"
// is 2097152, a bare "5" is 5.
func convertToByte(raw string) (int64, bool) {
	m := sizePattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	mult := sizeMultiplier[strings.ToLower(m[2])]
	return n * mult, true
}

// humanizeBytes renders a byte count for diagnostics; display only, never
// used for parsing.
func humanizeBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.Bytes(uint64(-n))
	}
	return humanize.Bytes(uint64(n))
}

// convertToMillis parses a time-typed value (decimal seconds) into
// milliseconds.
func convertToMillis(raw string) (int64, bool) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return int64(f * 1000), true
}

// parsePath validates and normalises a path-typed value: non-empty, must
// begin with "/", must not contain "//", trailing "/" stripped unless the
// value is exactly "/".
func parsePath(raw string) (string, bool) {
	if raw == "" || raw[0] != '/' {
		return "", false
	}
	if strings.Contains(raw, "//") {
		return "", false
	}
	if raw != "/" {
		raw = strings.TrimSuffix(raw, "/")
	}
	return raw, true
}

// parseHash parses a hash-typed value list: each token is "key=value"; a
// token without "=" is invalid; duplicate keys: last wins.
func parseHash(values []string) (map[string]string, bool) {
	out := make(map[string]string, len(values))
	for _, tok := range values {
		idx := strings.IndexByte(tok, '=')
		if idx < 0 {
			return nil, false
		}
		out[tok[:idx]] = tok[idx+1:]
	}
	return out, true
}

// parseBoolToken enforces the strict "y"/"n" grammar env and config
// sources must use for boolean options.
func parseBoolToken(raw string) (bool, bool) {
	switch raw {
	case "y":
		return true, true
	case "n":
		return false, true
	default:
		return false, false
	}
}
