package qname

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EncodeLocalName escapes every rune that may not appear in an XML local
// name as _xHHHH_ (or _xHHHHHHHH_ outside the BMP). An underscore that would
// otherwise read as the start of an escape is itself escaped, so
// DecodeLocalName(EncodeLocalName(s)) == s for every s.
func EncodeLocalName(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	first := true
	for i, r := range s {
		switch {
		case r == '_' && looksEscaped(s[i:]):
			b.WriteString("_x005F_")
		case first && isNameStart(r), !first && isNameChar(r):
			b.WriteRune(r)
		case r > 0xFFFF:
			fmt.Fprintf(&b, "_x%08X_", r)
		default:
			fmt.Fprintf(&b, "_x%04X_", r)
		}
		first = false
	}
	return b.String()
}

// DecodeLocalName reverses EncodeLocalName. Malformed escapes are kept
// verbatim.
func DecodeLocalName(s string) string {
	if !strings.Contains(s, "_x") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		if n, r, ok := decodeEscape(s[i:]); ok {
			b.WriteRune(r)
			i += n
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func looksEscaped(s string) bool {
	_, _, ok := decodeEscape(s)
	return ok
}

func decodeEscape(s string) (int, rune, bool) {
	if !strings.HasPrefix(s, "_x") {
		return 0, 0, false
	}
	for _, width := range []int{4, 8} {
		end := 2 + width
		if len(s) <= end || s[end] != '_' {
			continue
		}
		v, err := strconv.ParseUint(s[2:end], 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			continue
		}
		return end + 1, rune(v), true
	}
	return 0, 0, false
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	switch {
	case isNameStart(r), unicode.IsDigit(r):
		return true
	case r == '-', r == '.', r == 0xB7:
		return true
	}
	return unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Lm)
}

// GenericName renders a Go type name for use as a local name. Generic
// instantiations such as "Pair[int,example.com/geo.Point]" become
// "PairOfintPoint"; the result is not yet XML-encoded.
func GenericName(name string) string {
	open := strings.IndexByte(name, '[')
	if open < 0 || !strings.HasSuffix(name, "]") {
		return name
	}
	var b strings.Builder
	b.WriteString(name[:open])
	b.WriteString("Of")
	for _, arg := range splitTypeArgs(name[open+1 : len(name)-1]) {
		b.WriteString(typeArgName(arg))
	}
	return b.String()
}

func typeArgName(arg string) string {
	arg = strings.TrimSpace(arg)
	switch {
	case strings.HasPrefix(arg, "*"):
		return typeArgName(arg[1:])
	case strings.HasPrefix(arg, "[]"):
		return "ArrayOf" + typeArgName(arg[2:])
	}
	base := arg
	if open := strings.IndexByte(arg, '['); open >= 0 {
		base = arg[:open]
	}
	if dot := strings.LastIndexByte(base, '.'); dot >= 0 {
		arg = arg[dot+1:]
	}
	return GenericName(arg)
}

// splitTypeArgs splits a type argument list on commas that are not nested
// inside brackets.
func splitTypeArgs(s string) []string {
	var (
		res   []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				res = append(res, s[start:i])
				start = i + 1
			}
		}
	}
	return append(res, s[start:])
}
