package readfiles

import (
	"strconv"
)

// tecParser is a recursive descent parser over tecLexer with one token of
// lookahead.
//
//	document  = title variables zone { zone } EOF
//	title     = "TITLE" "=" string
//	variables = "VARIABLES" "=" string { [","] string }
//	zone      = "ZONE" { [","] key "=" value } { number }
//	value     = string | keyword | number | "(" ... ")"
type tecParser struct {
	lx      *tecLexer
	peeked  bool
	lookTok token
}

func newTecParser(text string) *tecParser {
	return &tecParser{lx: newTecLexer(text)}
}

func (p *tecParser) peek() (token, error) {
	if !p.peeked {
		tok, err := p.lx.next()
		if err != nil {
			return tok, err
		}
		p.lookTok, p.peeked = tok, true
	}
	return p.lookTok, nil
}

func (p *tecParser) next() (token, error) {
	tok, err := p.peek()
	if err != nil {
		return tok, err
	}
	p.peeked = false
	return tok, nil
}

func (p *tecParser) expect(kind tokKind, what string) (tok token, err error) {
	if tok, err = p.next(); err != nil {
		return
	}
	if tok.kind != kind {
		return tok, p.unexpected(tok, what)
	}
	return
}

func (p *tecParser) expectKeyword(word string) (tok token, err error) {
	if tok, err = p.next(); err != nil {
		return
	}
	if tok.kind != tokIdent || tok.text != word {
		return tok, p.unexpected(tok, word)
	}
	return
}

func (p *tecParser) unexpected(tok token, want string) *ParseError {
	if tok.kind == tokEOF {
		return p.lx.errorf(tok.line, tok.col, "unexpected end of input, expected %s", want)
	}
	return p.lx.errorf(tok.line, tok.col, "expected %s, found %s", want, tok.describe())
}

func (p *tecParser) skipComma() error {
	tok, err := p.peek()
	if err != nil {
		return err
	}
	if tok.kind == tokComma {
		_, err = p.next()
	}
	return err
}

func (p *tecParser) parseDocument() (doc *Document, err error) {
	var (
		tok token
	)
	doc = &Document{}
	if doc.Title, err = p.parseTitle(); err != nil {
		return nil, err
	}
	if doc.Variables, err = p.parseVariables(); err != nil {
		return nil, err
	}
	first, err := p.parseZone(true)
	if err != nil {
		return nil, err
	}
	doc.FirstZone = FirstZone{
		Title:       first.title,
		NumVertices: first.nvert,
		NumElements: first.nelem,
		Floats:      first.floats,
		Integers:    first.ints,
	}
	for {
		if tok, err = p.peek(); err != nil {
			return nil, err
		}
		if tok.kind == tokEOF {
			break
		}
		z, err := p.parseZone(false)
		if err != nil {
			return nil, err
		}
		doc.Zones = append(doc.Zones, Zone{
			Title:       z.title,
			NumVertices: z.nvert,
			NumElements: z.nelem,
			Floats:      z.floats,
		})
	}
	return doc, nil
}

func (p *tecParser) parseTitle() (string, error) {
	if _, err := p.expectKeyword("TITLE"); err != nil {
		return "", err
	}
	if _, err := p.expect(tokEquals, "'='"); err != nil {
		return "", err
	}
	tok, err := p.expect(tokString, "quoted title")
	return tok.text, err
}

func (p *tecParser) parseVariables() (vars []string, err error) {
	var (
		kw, tok token
	)
	if kw, err = p.expectKeyword("VARIABLES"); err != nil {
		return
	}
	if _, err = p.expect(tokEquals, "'='"); err != nil {
		return
	}
	if tok, err = p.expect(tokString, "quoted variable name"); err != nil {
		return
	}
	vars = append(vars, tok.text)
	for {
		if tok, err = p.peek(); err != nil {
			return nil, err
		}
		if tok.kind == tokComma {
			_, _ = p.next()
			if tok, err = p.expect(tokString, "quoted variable name"); err != nil {
				return nil, err
			}
		} else if tok.kind == tokString {
			_, _ = p.next()
		} else {
			break
		}
		vars = append(vars, tok.text)
	}
	if len(vars) < 3 {
		return nil, p.lx.errorf(kw.line, kw.col, "need at least 3 variables (X, Y, Z), found %d", len(vars))
	}
	return
}

type zoneData struct {
	title        string
	nvert, nelem int
	floats       []float64
	ints         []int
}

func (p *tecParser) parseZone(first bool) (z zoneData, err error) {
	var (
		kw, tok      token
		seen         = make(map[string]bool)
		hasN, hasE   bool
		nelemAliases = map[string]bool{"E": true, "ELEMENTS": true}
		nvertAliases = map[string]bool{"N": true, "NODES": true}
	)
	if kw, err = p.expectKeyword("ZONE"); err != nil {
		return
	}
	for {
		if err = p.skipComma(); err != nil {
			return
		}
		if tok, err = p.peek(); err != nil {
			return
		}
		if tok.kind != tokIdent || tok.text == "ZONE" {
			break
		}
		key, _ := p.next()
		if seen[key.text] {
			return z, p.lx.errorf(key.line, key.col, "duplicate zone header key %s", key.text)
		}
		seen[key.text] = true
		if _, err = p.expect(tokEquals, "'=' after "+key.text); err != nil {
			return
		}
		switch {
		case key.text == "T":
			if tok, err = p.expect(tokString, "quoted zone title"); err != nil {
				return
			}
			z.title = tok.text
		case nvertAliases[key.text]:
			if hasN {
				return z, p.lx.errorf(key.line, key.col, "vertex count given twice")
			}
			if z.nvert, err = p.parseCount(key.text); err != nil {
				return
			}
			hasN = true
		case nelemAliases[key.text]:
			if hasE {
				return z, p.lx.errorf(key.line, key.col, "element count given twice")
			}
			if z.nelem, err = p.parseCount(key.text); err != nil {
				return
			}
			hasE = true
		default:
			if err = p.skipValue(key.text); err != nil {
				return
			}
		}
	}
	if !hasN {
		return z, p.lx.errorf(kw.line, kw.col, "zone header is missing the vertex count N")
	}
	if first && !hasE {
		return z, p.lx.errorf(kw.line, kw.col, "first zone header is missing the element count E")
	}
	err = p.parseBody(first, &z)
	return
}

func (p *tecParser) parseCount(key string) (int, error) {
	tok, err := p.expect(tokInteger, "integer value for "+key)
	if err != nil {
		return 0, err
	}
	n, perr := strconv.Atoi(tok.text)
	if perr != nil || n < 0 {
		return 0, p.lx.errorf(tok.line, tok.col, "%s must be a non-negative integer, found %q", key, tok.text)
	}
	return n, nil
}

// skipValue consumes the value of a header key that reconstruction does not use
func (p *tecParser) skipValue(key string) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	switch tok.kind {
	case tokString, tokIdent, tokInteger, tokFloat:
		return nil
	case tokLParen:
		return p.lx.skipGroup(tok)
	default:
		return p.unexpected(tok, "value for "+key)
	}
}

// parseBody reads numeric tokens up to the next ZONE or the end of input.
// Roles in the first zone come from position: the first 6*N tokens are the
// coordinates and the first field whatever their written form, the rest are
// submesh tags and connectivity. A float written after that point is kept as
// float data unless integer data has already started.
func (p *tecParser) parseBody(first bool, z *zoneData) error {
	nFloat := 6 * z.nvert
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		switch tok.kind {
		case tokEOF:
			return nil
		case tokIdent:
			if tok.text == "ZONE" {
				return nil
			}
			return p.unexpected(tok, "number or ZONE")
		case tokFloat, tokInteger:
		default:
			return p.unexpected(tok, "number or ZONE")
		}
		switch {
		case !first || len(z.floats) < nFloat || (tok.kind == tokFloat && len(z.ints) == 0):
			v, perr := parseFloatToken(tok.text)
			if perr != nil {
				return p.lx.errorf(tok.line, tok.col, "malformed number %q", tok.text)
			}
			z.floats = append(z.floats, v)
		case tok.kind == tokFloat:
			return p.lx.errorf(tok.line, tok.col,
				"floating point value %q after integer data in first zone", tok.text)
		default:
			n, perr := strconv.Atoi(tok.text)
			if perr != nil || n < 0 {
				return p.lx.errorf(tok.line, tok.col, "expected a non-negative integer, found %q", tok.text)
			}
			z.ints = append(z.ints, n)
		}
		_, _ = p.next()
	}
}
