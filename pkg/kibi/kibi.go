package kibi

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidByteSize = errors.New("Invalid byte size")

var byteSizeRegex = regexp.MustCompile(`^(\d+)\s*([a-z]*)$`)

// Powers of 1024, starting at KB
var units = []string{"KB", "MB", "GB", "TB", "PB"}

// FormatBytes formats a byte count with a 1024-based unit, rounding down, eg "35 MB"
func FormatBytes(b int64) string {
	if b < 1024 {
		return fmt.Sprintf("%v bytes", b)
	}
	unit := -1
	for b >= 1024 && unit < len(units)-1 {
		b /= 1024
		unit++
	}
	return fmt.Sprintf("%v %v", b, units[unit])
}

// ParseBytes parses sizes such as "500", "500 bytes", "50 mb", "2G" into a byte count.
// Units are powers of 1024, and are case insensitive.
func ParseBytes(v string) (int64, error) {
	m := byteSizeRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(v)))
	if m == nil {
		return 0, fmt.Errorf("%w: '%v'", ErrInvalidByteSize, v)
	}
	value, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: '%v'", ErrInvalidByteSize, v)
	}
	suffix := m[2]
	if suffix == "" || suffix == "bytes" || suffix == "b" {
		return value, nil
	}
	multiplier := int64(1)
	for _, u := range units {
		multiplier *= 1024
		u = strings.ToLower(u)
		if suffix == u || suffix == u[:1] {
			if value > math.MaxInt64/multiplier {
				return 0, fmt.Errorf("%w: '%v' is too large", ErrInvalidByteSize, v)
			}
			return value * multiplier, nil
		}
	}
	return 0, fmt.Errorf("%w: '%v'", ErrInvalidByteSize, v)
}
