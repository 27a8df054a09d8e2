package parser

import (
	"strings"
)

// Split breaks a script into statements at semicolons which are not inside a quoted string,
// a quoted identifier, or a comment. Statements which are empty after trimming are dropped.
func Split(script string) []string {
	var stmts []string
	var quote byte
	var comment byte
	start := 0

	for idx := 0; idx < len(script); idx += 1 {
		b := script[idx]
		var next byte
		if idx+1 < len(script) {
			next = script[idx+1]
		}

		switch {
		case comment == '-':
			if b == '\n' {
				comment = 0
			}
		case comment == '*':
			if b == '*' && next == '/' {
				comment = 0
				idx += 1
			}
		case quote != 0:
			if b == '\\' && quote != '`' {
				idx += 1
			} else if b == quote {
				if next == quote {
					idx += 1
				} else {
					quote = 0
				}
			}
		case b == '\'' || b == '"' || b == '`':
			quote = b
		case b == '-' && next == '-':
			comment = '-'
			idx += 1
		case b == '/' && next == '*':
			comment = '*'
			idx += 1
		case b == ';':
			if s := strings.TrimSpace(script[start:idx]); s != "" {
				stmts = append(stmts, s)
			}
			start = idx + 1
		}
	}

	if start < len(script) {
		if s := strings.TrimSpace(script[start:]); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
