package xmlmap

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// formatDuration renders d in the XML Schema duration form, using days and
// time components only: P1DT2H3M4.5S.
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}
	var b strings.Builder
	u := uint64(d)
	if d < 0 {
		b.WriteByte('-')
		u = -u
	}
	b.WriteByte('P')
	if n := u / uint64(day); n > 0 {
		b.WriteString(strconv.FormatUint(n, 10))
		b.WriteByte('D')
		u %= uint64(day)
	}
	if u == 0 {
		return b.String()
	}
	b.WriteByte('T')
	if n := u / uint64(time.Hour); n > 0 {
		b.WriteString(strconv.FormatUint(n, 10))
		b.WriteByte('H')
		u %= uint64(time.Hour)
	}
	if n := u / uint64(time.Minute); n > 0 {
		b.WriteString(strconv.FormatUint(n, 10))
		b.WriteByte('M')
		u %= uint64(time.Minute)
	}
	if u > 0 {
		b.WriteString(strconv.FormatUint(u/uint64(time.Second), 10))
		if frac := u % uint64(time.Second); frac > 0 {
			b.WriteByte('.')
			b.WriteString(strings.TrimRight(fmt.Sprintf("%09d", frac), "0"))
		}
		b.WriteByte('S')
	}
	return b.String()
}

var errDurationSyntax = errors.New("invalid duration")

// parseDuration parses the XML Schema duration form. Year and month
// components have no fixed length and are rejected.
func parseDuration(s string) (time.Duration, error) {
	orig := s
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("%w %q: missing P designator", errDurationSyntax, orig)
	}
	s = s[1:]
	if s == "" {
		return 0, fmt.Errorf("%w %q: no components", errDurationSyntax, orig)
	}
	var (
		total  uint64
		inTime bool
		last   = -1
	)
	for s != "" {
		if s[0] == 'T' {
			if inTime || len(s) == 1 {
				return 0, fmt.Errorf("%w %q: misplaced T", errDurationSyntax, orig)
			}
			inTime = true
			s = s[1:]
			continue
		}
		i := 0
		for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
			i++
		}
		if i == 0 || i == len(s) {
			return 0, fmt.Errorf("%w %q", errDurationSyntax, orig)
		}
		num, unit := s[:i], s[i]
		s = s[i+1:]

		var rank int
		var scale time.Duration
		switch {
		case !inTime && (unit == 'Y' || unit == 'M'):
			return 0, fmt.Errorf("%w %q: year and month components are not supported", errDurationSyntax, orig)
		case !inTime && unit == 'D':
			rank, scale = 0, day
		case inTime && unit == 'H':
			rank, scale = 1, time.Hour
		case inTime && unit == 'M':
			rank, scale = 2, time.Minute
		case inTime && unit == 'S':
			rank, scale = 3, time.Second
		default:
			return 0, fmt.Errorf("%w %q: unexpected %q", errDurationSyntax, orig, unit)
		}
		if rank <= last {
			return 0, fmt.Errorf("%w %q: components out of order", errDurationSyntax, orig)
		}
		last = rank
		n, err := durationComponent(num, scale)
		if err != nil {
			return 0, fmt.Errorf("%w %q: %v", errDurationSyntax, orig, err)
		}
		total += n
		if total > math.MaxInt64 {
			return 0, fmt.Errorf("%w %q: out of range", errDurationSyntax, orig)
		}
	}
	if neg {
		return -time.Duration(total), nil
	}
	return time.Duration(total), nil
}

func durationComponent(num string, scale time.Duration) (uint64, error) {
	whole, frac, hasFrac := strings.Cut(num, ".")
	if hasFrac && scale != time.Second {
		return 0, errors.New("only seconds may have a fraction")
	}
	if whole == "" {
		whole = "0"
	}
	n, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt64/uint64(scale) {
		return 0, errors.New("out of range")
	}
	n *= uint64(scale)
	if hasFrac {
		if frac == "" || strings.Contains(frac, ".") {
			return 0, errors.New("bad fraction")
		}
		if len(frac) > 9 {
			frac = frac[:9]
		}
		frac += strings.Repeat("0", 9-len(frac))
		f, err := strconv.ParseUint(frac, 10, 64)
		if err != nil {
			return 0, err
		}
		n += f
	}
	return n, nil
}
