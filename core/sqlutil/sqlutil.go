// Package sqlutil contains small lexical helpers for PostgreSQL script text.
package sqlutil

import (
	"regexp"
	"strings"
)

// StripComments removes "--" line comments and "/* */" block comments from
// sql. Quoted strings, quoted identifiers and dollar-quoted bodies are copied
// verbatim. Line breaks are preserved so line structure survives.
func StripComments(sql string) string {
	var b strings.Builder
	b.Grow(len(sql))

	for i := 0; i < len(sql); {
		ch := sql[i]
		switch {
		case ch == '-' && i+1 < len(sql) && sql[i+1] == '-':
			end := strings.IndexByte(sql[i:], '\n')
			if end < 0 {
				return b.String()
			}
			i += end
		case ch == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := blockCommentEnd(sql, i)
			// keep a separator so tokens on either side do not merge
			b.WriteByte(' ')
			i = end
		case ch == '\'' || ch == '"':
			end := quotedEnd(sql, i, ch, ch == '\'' && escapeString(sql, i))
			b.WriteString(sql[i:end])
			i = end
		case ch == '$':
			if tag, ok := dollarTag(sql[i:]); ok {
				end := strings.Index(sql[i+len(tag):], tag)
				if end < 0 {
					b.WriteString(sql[i:])
					return b.String()
				}
				end = i + len(tag) + end + len(tag)
				b.WriteString(sql[i:end])
				i = end
				continue
			}
			b.WriteByte(ch)
			i++
		default:
			b.WriteByte(ch)
			i++
		}
	}
	return b.String()
}

// blockCommentEnd returns the offset just past the comment starting at i.
// PostgreSQL block comments nest.
func blockCommentEnd(sql string, i int) int {
	depth := 0
	for i < len(sql) {
		switch {
		case strings.HasPrefix(sql[i:], "/*"):
			depth++
			i += 2
		case strings.HasPrefix(sql[i:], "*/"):
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return len(sql)
}

// quotedEnd returns the offset just past the quoted token starting at i.
// A doubled quote character is an escaped quote. In escape strings a
// backslash also escapes the next character.
func quotedEnd(sql string, i int, quote byte, backslash bool) int {
	for j := i + 1; j < len(sql); j++ {
		if backslash && sql[j] == '\\' {
			j++
			continue
		}
		if sql[j] != quote {
			continue
		}
		if j+1 < len(sql) && sql[j+1] == quote {
			j++
			continue
		}
		return j + 1
	}
	return len(sql)
}

// escapeString reports whether the quote at i opens an E'...' string.
func escapeString(sql string, i int) bool {
	if i == 0 || (sql[i-1] != 'E' && sql[i-1] != 'e') {
		return false
	}
	return i == 1 || !isIdentByte(sql[i-2])
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ch == '$' || ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= 0x80
}

var dollarTagRe = regexp.MustCompile(`^\$[A-Za-z_][A-Za-z0-9_]*\$|^\$\$`)

func dollarTag(s string) (string, bool) {
	tag := dollarTagRe.FindString(s)
	return tag, tag != ""
}

var firstCommentRe = regexp.MustCompile(`(?m)^-- (.+)$`)

// FirstComment returns the text of the first line starting with "-- ".
func FirstComment(sql string) (string, bool) {
	m := firstCommentRe.FindStringSubmatch(sql)
	if m == nil {
		return "", false
	}
	return strings.TrimRight(m[1], "\r"), true
}
