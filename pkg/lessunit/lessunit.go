// Package lessunit rewrites px2rem unit-conversion mixin calls in Less
// sources into plain declarations.
//
//	.px2rem6(padding, 10, unit(20)) !important;
//
// becomes
//
//	padding: 10px 20px !important;
package lessunit

import (
	"strconv"
	"strings"
)

// Macro is the mixin invocation the rewriter replaces.
const Macro = ".px2rem6("

// Unit is appended to unitless numeric values.
const Unit = "px"

const important = "!important"

// Rewrite replaces every Macro invocation in text. Malformed invocations are
// left as they are.
func Rewrite(text string) string {
	var sb strings.Builder

	rest := text

	for {
		at := strings.Index(rest, Macro)
		if at < 0 {
			sb.WriteString(rest)

			return sb.String()
		}

		sb.WriteString(rest[:at])

		decl, consumed, ok := rewriteCall(rest[at:])
		if !ok {
			sb.WriteString(Macro)
			rest = rest[at+len(Macro):]

			continue
		}

		sb.WriteString(decl)
		rest = rest[at+consumed:]
	}
}

// rewriteCall rewrites the invocation at the start of s and reports how many
// bytes it consumed, including a trailing !important and semicolon.
func rewriteCall(s string) (string, int, bool) {
	end, ok := closingParen(s, len(Macro)-1)
	if !ok {
		return "", 0, false
	}

	args := splitArgs(s[len(Macro):end])
	if len(args) < 2 || args[0] == "" {
		return "", 0, false
	}

	values := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		values = append(values, addUnit(stripUnit(a)))
	}

	decl := args[0] + ": " + strings.Join(values, " ")
	pos := end + 1

	tail := strings.TrimLeft(s[pos:], " \t")
	if strings.HasPrefix(tail, important) {
		decl += " " + important
		pos = len(s) - len(tail) + len(important)
		tail = strings.TrimLeft(s[pos:], " \t")
	}

	if strings.HasPrefix(tail, ";") {
		pos = len(s) - len(tail) + 1
	}

	return decl + ";", pos, true
}

// closingParen returns the index of the parenthesis closing the one at open.
func closingParen(s string, open int) (int, bool) {
	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		case '\n', '{', '}':
			return 0, false
		}
	}

	return 0, false
}

// splitArgs splits on commas outside parentheses and trims each argument.
func splitArgs(s string) []string {
	var (
		out   []string
		depth int
		start int
	)

	for i := range len(s) {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}

	return append(out, strings.TrimSpace(s[start:]))
}

// stripUnit unwraps unit(x) helper calls.
func stripUnit(v string) string {
	for {
		at := strings.Index(v, "unit(")
		if at < 0 || (at > 0 && isIdentByte(v[at-1])) {
			return v
		}

		end, ok := closingParen(v, at+len("unit"))
		if !ok {
			return v
		}

		inner := v[at+len("unit(") : end]
		if i := strings.IndexByte(inner, ','); i >= 0 {
			inner = inner[:i]
		}

		v = v[:at] + strings.TrimSpace(inner) + v[end+1:]
	}
}

func isIdentByte(b byte) bool {
	return b == '-' || b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// addUnit suffixes plain numbers with Unit.
func addUnit(v string) string {
	if _, err := strconv.ParseFloat(v, 64); err != nil {
		return v
	}

	return v + Unit
}
