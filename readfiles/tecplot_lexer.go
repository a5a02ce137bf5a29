package readfiles

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError locates a grammar fault. Line and Col are 1-based, Col counts
// bytes.
type ParseError struct {
	Line, Col int
	Msg       string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tecplot parse error at line %d, col %d: %s", e.Line, e.Col, e.Msg)
}

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokIdent
	tokString
	tokInteger
	tokFloat
	tokEquals
	tokComma
	tokLParen
	tokRParen
)

func (k tokKind) String() string {
	return [...]string{"end of input", "keyword", "quoted string", "integer", "number", "'='", "','",
		"'('", "')'"}[k]
}

type token struct {
	kind      tokKind
	text      string // Strings exclude their quotes
	line, col int
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return t.kind.String()
	case tokString:
		return fmt.Sprintf("string %q", t.text)
	default:
		return fmt.Sprintf("%s %q", t.kind, t.text)
	}
}

type tecLexer struct {
	src       string
	pos       int
	line, col int
}

func newTecLexer(src string) *tecLexer {
	return &tecLexer{src: src, line: 1, col: 1}
}

func (lx *tecLexer) errorf(line, col int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (lx *tecLexer) advance() {
	if lx.src[lx.pos] == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	lx.pos++
}

// skipSpace skips whitespace and # comments, which run to the end of the line
func (lx *tecLexer) skipSpace() {
	for lx.pos < len(lx.src) {
		switch c := lx.src[lx.pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v':
			lx.advance()
		case c == '#':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.advance()
			}
		default:
			return
		}
	}
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNumberByte(c byte) bool {
	return isDigit(c) || c == '.' || c == '+' || c == '-' || c == 'e' || c == 'E' || c == 'd' || c == 'D'
}

func (lx *tecLexer) next() (tok token, err error) {
	lx.skipSpace()
	tok.line, tok.col = lx.line, lx.col
	if lx.pos >= len(lx.src) {
		tok.kind = tokEOF
		return
	}
	start := lx.pos
	switch c := lx.src[lx.pos]; {
	case c == '=':
		tok.kind, tok.text = tokEquals, "="
		lx.advance()
	case c == ',':
		tok.kind, tok.text = tokComma, ","
		lx.advance()
	case c == '(':
		tok.kind, tok.text = tokLParen, "("
		lx.advance()
	case c == ')':
		tok.kind, tok.text = tokRParen, ")"
		lx.advance()
	case c == '"':
		lx.advance()
		for {
			if lx.pos >= len(lx.src) || lx.src[lx.pos] == '\n' {
				return tok, lx.errorf(tok.line, tok.col, "unterminated quoted string")
			}
			if lx.src[lx.pos] == '"' {
				break
			}
			lx.advance()
		}
		tok.kind, tok.text = tokString, lx.src[start+1:lx.pos]
		lx.advance()
	case isLetter(c):
		for lx.pos < len(lx.src) && (isLetter(lx.src[lx.pos]) || isDigit(lx.src[lx.pos])) {
			lx.advance()
		}
		tok.kind, tok.text = tokIdent, lx.src[start:lx.pos]
	case isDigit(c) || c == '.' || c == '+' || c == '-':
		for lx.pos < len(lx.src) && isNumberByte(lx.src[lx.pos]) {
			lx.advance()
		}
		tok.text = lx.src[start:lx.pos]
		if tok.kind, err = classifyNumber(tok.text); err != nil {
			return tok, lx.errorf(tok.line, tok.col, "%v", err)
		}
		// Catch things like 1.0abc that would otherwise lex as number then keyword
		if lx.pos < len(lx.src) && isLetter(lx.src[lx.pos]) {
			return tok, lx.errorf(tok.line, tok.col, "malformed number starting %q", tok.text)
		}
	default:
		return tok, lx.errorf(tok.line, tok.col, "unexpected character %q", c)
	}
	return
}

// classifyNumber splits numeric tokens into integers (optional sign then
// digits only) and floats, checking that floats parse.
func classifyNumber(text string) (tokKind, error) {
	digits := strings.TrimLeft(text, "+-")
	if len(text)-len(digits) > 1 || len(digits) == 0 {
		return tokEOF, fmt.Errorf("malformed number %q", text)
	}
	if strings.Trim(digits, "0123456789") == "" {
		return tokInteger, nil
	}
	if _, err := parseFloatToken(text); err != nil {
		return tokEOF, fmt.Errorf("malformed number %q", text)
	}
	return tokFloat, nil
}

// parseFloatToken accepts Fortran style D exponents as well as E
func parseFloatToken(text string) (float64, error) {
	if strings.ContainsAny(text, "dD") {
		text = strings.NewReplacer("d", "e", "D", "e").Replace(text)
	}
	return strconv.ParseFloat(text, 64)
}

// skipGroup consumes raw input up to and including the ')' matching an
// already consumed '('. Quoted strings inside are skipped whole.
func (lx *tecLexer) skipGroup(open token) error {
	depth := 1
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '(':
			depth++
		case ')':
			depth--
		case '"':
			line, col := lx.line, lx.col
			lx.advance()
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '"' && lx.src[lx.pos] != '\n' {
				lx.advance()
			}
			if lx.pos >= len(lx.src) || lx.src[lx.pos] != '"' {
				return lx.errorf(line, col, "unterminated quoted string")
			}
		}
		lx.advance()
		if depth == 0 {
			return nil
		}
	}
	return lx.errorf(open.line, open.col, "unterminated '(' group")
}
