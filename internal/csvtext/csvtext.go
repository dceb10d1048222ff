// Package csvtext tokenizes and renders RFC 4180 style CSV text.
//
// It knows nothing about the portfolio schema. The reader side is deliberately
// lenient: unbalanced quotes never produce an error, the remainder of the input
// is simply treated as quoted.
package csvtext

import "strings"

const quote = '"'

// SplitLogicalLines splits text into CSV records. Line boundaries (LF or CRLF)
// inside a quoted field are folded into the record as a single "\n".
// An empty input yields a single empty line.
func SplitLogicalLines(text string) []string {
	var (
		lines    []string
		current  strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == quote:
			inQuotes = !inQuotes
			current.WriteByte(c)
		case c == '\r' && i+1 < len(text) && text[i+1] == '\n':
			i++
			if inQuotes {
				current.WriteByte('\n')
				continue
			}
			lines = append(lines, current.String())
			current.Reset()
		case c == '\n':
			if inQuotes {
				current.WriteByte('\n')
				continue
			}
			lines = append(lines, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	// The last line is always emitted, even when a quote was left open.
	return append(lines, current.String())
}

// SplitFields splits a single logical line into its fields. Wrapping quotes
// are removed and doubled quotes inside a quoted field are unescaped.
func SplitFields(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		if inQuotes {
			if c == quote {
				if i+1 < len(line) && line[i+1] == quote {
					current.WriteByte(quote)
					i++
					continue
				}
				inQuotes = false
				continue
			}
			current.WriteByte(c)
			continue
		}

		switch c {
		case quote:
			inQuotes = true
		case ',':
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	return append(fields, current.String())
}

// NeedsQuoting reports whether field must be quoted to survive a round trip.
func NeedsQuoting(field string) bool {
	return strings.ContainsAny(field, ",\"\n\r")
}

// EscapeField quotes field when it contains a comma, a quote or a line break,
// doubling any embedded quotes. Other fields are returned verbatim.
func EscapeField(field string) string {
	if !NeedsQuoting(field) {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// JoinFields escapes each field and joins them into one CSV line.
func JoinFields(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeField(f)
	}
	return strings.Join(escaped, ",")
}
