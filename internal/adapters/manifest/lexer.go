// Package manifest extracts local dependency folders from crate manifests.
//
// The parser is deliberately not a compliant TOML implementation. It
// understands just enough of the format to find sections, key/value pairs and
// inline tables, and it keeps going after an error so a single pass can
// report every problem in the file.
package manifest

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// position is a location in the manifest text. Line and column are stored
// zero-based and rendered one-based.
type position struct {
	line int
	col  int
}

func (p position) String() string {
	return fmt.Sprintf("%d:%d", p.line+1, p.col+1)
}

// span is the inclusive extent of a token or production.
type span struct {
	start position
	end   position
}

// parseError is one positioned problem found in a manifest.
type parseError struct {
	pos position
	msg string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("%s: %s", e.pos, e.msg)
}

func errorAt(pos position, format string, args ...any) error {
	return &parseError{pos: pos, msg: fmt.Sprintf(format, args...)}
}

type tokenKind uint8

const (
	tokenIdent tokenKind = iota
	tokenString
	tokenBool
	tokenEquals
	tokenComma
	tokenLCurly
	tokenRCurly
	tokenLSquare
	tokenRSquare
)

// token is one lexical atom.
type token struct {
	kind  tokenKind
	text  string // identifier name or decoded string contents
	truth bool   // boolean literals
	at    span
}

func (t *token) pos() span { return t.at }

func (t *token) describe() string {
	switch t.kind {
	case tokenIdent:
		return fmt.Sprintf("identifier '%s'", t.text)
	case tokenString:
		return fmt.Sprintf("string %q", t.text)
	case tokenBool:
		return fmt.Sprintf("boolean '%t'", t.truth)
	case tokenEquals:
		return "'='"
	case tokenComma:
		return "','"
	case tokenLCurly:
		return "'{'"
	case tokenRCurly:
		return "'}'"
	case tokenLSquare:
		return "'['"
	case tokenRSquare:
		return "']'"
	}
	return "unknown token"
}

type lexMode uint8

const (
	lexStart lexMode = iota
	lexWord
	lexString
	lexEscape
	lexComment
)

// lexer walks the manifest text one byte at a time. It survives its own
// errors: after next returns an error the lexer is positioned to keep
// producing tokens, which is what allows whole-file error reporting.
type lexer struct {
	lines []string
	line  int
	col   int

	mode  lexMode
	buf   strings.Builder
	start position
}

func newLexer(text string) *lexer {
	return &lexer{lines: strings.Split(text, "\n")}
}

// next returns the next token. Both results are nil at the end of the input.
func (l *lexer) next() (*token, error) { //nolint:gocyclo // one case per lexer state
	for l.line < len(l.lines) {
		if l.col >= len(l.lines[l.line]) {
			endOfLine := position{l.line, len(l.lines[l.line])}
			l.line++
			l.col = 0

			switch l.mode {
			case lexWord:
				l.mode = lexStart
				return l.word(position{endOfLine.line, endOfLine.col - 1}), nil
			case lexString:
				l.mode = lexStart
				l.buf.Reset()
				return nil, errorAt(endOfLine, "unterminated string (missing '\"')")
			case lexEscape:
				l.mode = lexStart
				l.buf.Reset()
				return nil, errorAt(endOfLine, "missing escape character")
			case lexComment:
				l.mode = lexStart
			}
			continue
		}

		c := l.lines[l.line][l.col]
		here := position{l.line, l.col}

		switch l.mode {
		case lexStart:
			switch {
			case isWordStart(c):
				l.mode = lexWord
				l.start = here
				l.buf.WriteByte(c)
				l.col++
			case c == '\'' || c == '"':
				// Either quote opens a string; only '"' closes one.
				l.mode = lexString
				l.start = here
				l.col++
			case c == '=':
				l.col++
				return &token{kind: tokenEquals, at: span{here, here}}, nil
			case c == ',':
				l.col++
				return &token{kind: tokenComma, at: span{here, here}}, nil
			case c == '{':
				l.col++
				return &token{kind: tokenLCurly, at: span{here, here}}, nil
			case c == '}':
				l.col++
				return &token{kind: tokenRCurly, at: span{here, here}}, nil
			case c == '[':
				l.col++
				return &token{kind: tokenLSquare, at: span{here, here}}, nil
			case c == ']':
				l.col++
				return &token{kind: tokenRSquare, at: span{here, here}}, nil
			case c == ' ' || c == '\t' || c == '\r':
				l.col++
			case c == '#':
				l.mode = lexComment
				l.col++
			default:
				r, size := utf8.DecodeRuneInString(l.lines[l.line][l.col:])
				l.col += size
				return nil, errorAt(here, "unexpected character %q", r)
			}

		case lexWord:
			if isWordChar(c) {
				l.buf.WriteByte(c)
				l.col++
				continue
			}
			// The current character belongs to the next token.
			l.mode = lexStart
			return l.word(position{l.line, l.col - 1}), nil

		case lexString:
			switch c {
			case '\\':
				l.mode = lexEscape
				l.col++
			case '"':
				l.mode = lexStart
				l.col++
				text := l.buf.String()
				l.buf.Reset()
				return &token{kind: tokenString, text: text, at: span{l.start, position{l.line, l.col - 1}}}, nil
			default:
				l.buf.WriteByte(c)
				l.col++
			}

		case lexEscape:
			l.mode = lexString
			l.col++
			switch c {
			case '\\', '"', '\'':
				l.buf.WriteByte(c)
			case 'n':
				l.buf.WriteByte('\n')
			case 't':
				l.buf.WriteByte('\t')
			case 'r':
				l.buf.WriteByte('\r')
			default:
				return nil, errorAt(here, "unknown escape character %q (ignoring)", rune(c))
			}

		case lexComment:
			l.col++
		}
	}
	return nil, nil
}

// word turns the accumulated buffer into a boolean or identifier token.
func (l *lexer) word(end position) *token {
	text := l.buf.String()
	l.buf.Reset()
	if text == "true" || text == "false" {
		return &token{kind: tokenBool, truth: text == "true", at: span{l.start, end}}
	}
	return &token{kind: tokenIdent, text: text, at: span{l.start, end}}
}

func isWordStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isWordChar(c byte) bool {
	return isWordStart(c) || (c >= '0' && c <= '9') || c == '-'
}
