package driver

import (
	"fmt"

	spec "github.com/nihei9/lilac/spec/grammar"
)

type ParserOption func(p *Parser) error

// SemanticAction registers an action set that observes each step of a parse.
func SemanticAction(semAct ParseActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		return nil
	}
}

// ErrorHint appends a note to the diagnostics that the parser reports when a non-terminal meets
// a terminal it has no entry for.
func ErrorHint(nonTerminal, terminal, note string) ParserOption {
	return func(p *Parser) error {
		nt, ok := p.gram.NonTerminalNumber(nonTerminal)
		if !ok {
			return fmt.Errorf("a non-terminal was not found: %v", nonTerminal)
		}
		t, ok := p.gram.TerminalNumber(terminal)
		if !ok {
			return fmt.Errorf("a terminal was not found: %v", terminal)
		}
		p.hints[[2]int{nt, t}] = note
		return nil
	}
}

type stackFrame struct {
	// sym is a terminal number t or a negated non-terminal number -n.
	sym  int
	node *Node
}

// Parser is a table-driven predictive parser. It recovers from a syntax error in panic mode: a mismatched
// terminal is popped, a token without a table entry is skipped, and a synch entry pops the non-terminal.
type Parser struct {
	toks      TokenStream
	gram      Grammar
	semAct    ParseActionSet
	hints     map[[2]int]string
	stack     []*stackFrame
	tree      *Node
	synErrs   []*SyntaxError
	nodeID    int
	exhausted bool
}

func NewParser(toks TokenStream, gram Grammar, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		toks:   toks,
		gram:   gram,
		semAct: NopActionSet{},
		hints:  map[[2]int]string{},
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse parses the whole token stream. Syntax errors are recorded and the parse continues; only
// ErrUnexpectedEOF, or an error from the token stream, stops it.
func (p *Parser) Parse() error {
	start := p.gram.StartSymbol()
	eof := p.gram.EOF()
	p.tree = p.newNode(p.gram.NonTerminal(start), false)
	p.stack = []*stackFrame{
		{sym: eof, node: p.newNode(p.gram.Terminal(eof), true)},
		{sym: -start, node: p.tree},
	}

	tok, err := p.toks.Next()
	if err != nil {
		return err
	}

	for len(p.stack) > 0 {
		if p.exhausted {
			return ErrUnexpectedEOF
		}

		top := p.stack[len(p.stack)-1]
		term := p.tokenToTerminal(tok)

		if top.sym > 0 {
			if top.sym == term {
				p.match(top, tok)
				p.pop()
				tok, err = p.advance(tok)
				if err != nil {
					return err
				}
				continue
			}

			p.recordError(tok, "unexpected token", []string{p.gram.Terminal(top.sym)})
			p.semAct.Discard(top.node.KindName, tok, false)
			p.pop()
			continue
		}

		nonTerm := -top.sym
		entry := p.gram.Entry(nonTerm, term)
		switch {
		case entry == spec.TableEntryError:
			p.recordError(tok, p.message(nonTerm, term), p.searchExpectedTerminals(nonTerm))
			p.semAct.Skip(top.node.KindName, tok)
			tok, err = p.advance(tok)
			if err != nil {
				return err
			}
		case entry == spec.TableEntrySynch:
			p.recordError(tok, p.message(nonTerm, term), p.searchExpectedTerminals(nonTerm))
			p.semAct.Discard(top.node.KindName, tok, true)
			p.pop()
		default:
			p.pop()
			p.expand(top, entry-1)
		}
	}

	return nil
}

// Tree returns the parse tree. The tree is available even when the parse recorded syntax errors.
func (p *Parser) Tree() *Node {
	return p.tree
}

func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.synErrs
}

func (p *Parser) HadError() bool {
	return len(p.synErrs) > 0
}

func (p *Parser) tokenToTerminal(tok VToken) int {
	switch {
	case tok.Invalid():
		return 0
	case tok.EOF():
		return p.gram.EOF()
	}
	return tok.TerminalID()
}

// advance moves past tok. Moving past the end-of-input token exhausts the input.
func (p *Parser) advance(tok VToken) (VToken, error) {
	if tok.EOF() {
		p.exhausted = true
		return tok, nil
	}
	return p.toks.Next()
}

func (p *Parser) match(top *stackFrame, tok VToken) {
	row, col := tok.Position()
	top.node.Text = string(tok.Lexeme())
	top.node.Row = row
	top.node.Col = col
	top.node.Matched = true
	p.semAct.Match(top.node.KindName, tok)
}

// expand attaches the RHS of a production to the node on the top of the stack and pushes the new
// children in reverse order. The empty production gets a single epsilon child that is not pushed.
func (p *Parser) expand(top *stackFrame, prod int) {
	p.semAct.Expand(top.node.KindName, prod)

	rhs := p.gram.RHS(prod)
	if len(rhs) == 0 {
		eps := p.newNode("#", true)
		eps.Epsilon = true
		top.node.Children = []*Node{eps}
		return
	}

	children := make([]*Node, len(rhs))
	for i, sym := range rhs {
		if sym > 0 {
			children[i] = p.newNode(p.gram.Terminal(sym), true)
		} else {
			children[i] = p.newNode(p.gram.NonTerminal(-sym), false)
		}
	}
	top.node.Children = children

	for i := len(rhs) - 1; i >= 0; i-- {
		p.stack = append(p.stack, &stackFrame{
			sym:  rhs[i],
			node: children[i],
		})
	}
}

func (p *Parser) pop() {
	p.stack = p.stack[:len(p.stack)-1]
}

func (p *Parser) newNode(kindName string, terminal bool) *Node {
	p.nodeID++
	return &Node{
		ID:       p.nodeID,
		KindName: kindName,
		Terminal: terminal,
	}
}

func (p *Parser) recordError(tok VToken, message string, expected []string) {
	row, col := tok.Position()
	p.synErrs = append(p.synErrs, &SyntaxError{
		Row:               row,
		Col:               col,
		Message:           message,
		Token:             tok,
		ExpectedTerminals: expected,
	})
}

func (p *Parser) message(nonTerm, term int) string {
	if note, ok := p.hints[[2]int{nonTerm, term}]; ok {
		return fmt.Sprintf("unexpected token (%v)", note)
	}
	return "unexpected token"
}

// searchExpectedTerminals returns the terminals that have a production entry in the row of a non-terminal.
func (p *Parser) searchExpectedTerminals(nonTerm int) []string {
	var terms []string
	for term := 1; term < p.gram.TerminalCount(); term++ {
		if p.gram.Entry(nonTerm, term) > 0 {
			terms = append(terms, p.gram.Terminal(term))
		}
	}
	return terms
}
