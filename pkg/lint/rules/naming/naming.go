package naming

import (
	"strings"

	"github.com/hansl-tools/hanslint/pkg/token"
)

// isSnakeCase reports whether name is lowercase with optional underscores
// and digits. Single letters qualify.
func isSnakeCase(name string) bool {
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= '0' && ch <= '9':
		case ch == '_':
		default:
			return false
		}
	}
	return len(name) > 0
}

// isAllCaps reports whether name is uppercase letters, digits, and
// underscores only.
func isAllCaps(name string) bool {
	hasUpper := false
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= '0' && ch <= '9':
		case ch == '_':
		default:
			return false
		}
	}
	return hasUpper
}

// toSnakeCase converts a camelCase or PascalCase name to snake_case for
// suggestion messages.
func toSnakeCase(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch >= 'A' && ch <= 'Z' {
			if i > 0 && name[i-1] != '_' {
				b.WriteByte('_')
			}
			b.WriteByte(ch - 'A' + 'a')
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// endOfName returns the position just past an identifier.
func endOfName(pos token.Position, name string) token.Position {
	return token.Position{
		Line:   pos.Line,
		Column: pos.Column + len(name),
		Offset: pos.Offset + len(name),
	}
}
