package parser

import (
	"io"

	verr "github.com/nihei9/lilac/error"
)

type RootNode struct {
	Productions []*ProductionNode
}

// ProductionNode is one line of a grammar description. An empty RHS represents the empty production.
type ProductionNode struct {
	LHS string
	RHS []*ElementNode
	Pos Position
}

type ElementNode struct {
	Name     string
	Terminal bool
	Pos      Position
}

type syntaxErrorFrame struct {
	cause  error
	detail string
	pos    Position
}

func raiseSyntaxError(synErr *SyntaxError, detail string, pos Position) {
	panic(&syntaxErrorFrame{
		cause:  synErr,
		detail: detail,
		pos:    pos,
	})
}

// Parse reads a grammar description. Each line holds one production `<LHS>-><RHS>`, where the RHS
// consists of terminals `[t]`, non-terminals `<N>`, and the empty mark `#`. Parse reports all syntax
// errors found in the description at once as verr.SpecErrors.
func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	return p.parse()
}

type parser struct {
	lex       *lex
	peekedTok *token
	lastTok   *token
	errs      verr.SpecErrors
}

func newParser(src io.Reader) (*parser, error) {
	l, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: l,
	}, nil
}

func (p *parser) parse() (*RootNode, error) {
	root := &RootNode{}
	for {
		prod, eof, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		if prod != nil {
			root.Productions = append(root.Productions, prod)
		}
		if eof {
			break
		}
	}
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	if len(root.Productions) == 0 {
		return nil, verr.SpecErrors{
			&verr.SpecError{
				Cause: synErrNoProduction,
			},
		}
	}
	return root, nil
}

// parseLine parses one line. When the line contains a syntax error, parseLine records the error and
// skips to the next line.
func (p *parser) parseLine() (prod *ProductionNode, eof bool, retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		frame, ok := v.(*syntaxErrorFrame)
		if !ok {
			if err, ok := v.(error); ok {
				prod, eof, retErr = nil, true, err
				return
			}
			panic(v)
		}
		p.errs = append(p.errs, &verr.SpecError{
			Cause:  frame.cause,
			Detail: frame.detail,
			Row:    frame.pos.Row,
			Col:    frame.pos.Col,
		})
		prod = nil
		eof, retErr = p.skipLine()
	}()

	if p.consume(tokenKindEOF) {
		return nil, true, nil
	}
	if p.consume(tokenKindNewline) {
		return nil, false, nil
	}

	if !p.consume(tokenKindNonTerminal) {
		tok := p.peek()
		raiseSyntaxError(synErrNoProductionName, tok.text, tok.pos)
	}
	prod = &ProductionNode{
		LHS: p.lastTok.text,
		Pos: p.lastTok.pos,
	}
	if !p.consume(tokenKindArrow) {
		tok := p.peek()
		raiseSyntaxError(synErrNoArrow, tok.text, tok.pos)
	}

	rhs := []*ElementNode{}
	symCount := 0
ELEM_LOOP:
	for {
		tok := p.peek()
		switch tok.kind {
		case tokenKindTerminal, tokenKindNonTerminal:
			p.consume(tok.kind)
			rhs = append(rhs, &ElementNode{
				Name:     tok.text,
				Terminal: tok.kind == tokenKindTerminal,
				Pos:      tok.pos,
			})
			symCount++
		case tokenKindEpsilon:
			// The empty mark contributes nothing to an RHS.
			p.consume(tok.kind)
			symCount++
		case tokenKindArrow:
			raiseSyntaxError(synErrStrayArrow, "", tok.pos)
		case tokenKindInvalid:
			raiseSyntaxError(synErrInvalidToken, tok.text, tok.pos)
		default:
			break ELEM_LOOP
		}
	}
	if symCount == 0 {
		raiseSyntaxError(synErrEmptyRHS, "", prod.Pos)
	}
	prod.RHS = rhs

	eof = p.consume(tokenKindEOF)
	if !eof {
		p.consume(tokenKindNewline)
	}
	return prod, eof, nil
}

func (p *parser) skipLine() (bool, error) {
	for {
		tok, err := p.nextToken()
		if err != nil {
			if _, ok := err.(*lexError); ok {
				continue
			}
			return false, err
		}
		switch tok.kind {
		case tokenKindEOF:
			return true, nil
		case tokenKindNewline:
			return false, nil
		}
	}
}

func (p *parser) peek() *token {
	if p.peekedTok != nil {
		return p.peekedTok
	}
	tok, err := p.nextToken()
	if err != nil {
		if lexErr, ok := err.(*lexError); ok {
			raiseSyntaxError(lexErr.cause, lexErr.text, lexErr.pos)
		}
		panic(err)
	}
	p.peekedTok = tok
	return tok
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.peek()
	if tok.kind != expected {
		return false
	}
	p.peekedTok = nil
	p.lastTok = tok
	return true
}

func (p *parser) nextToken() (*token, error) {
	if p.peekedTok != nil {
		tok := p.peekedTok
		p.peekedTok = nil
		return tok, nil
	}
	return p.lex.next()
}
