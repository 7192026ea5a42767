package grammar

import (
	"fmt"
)

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (t symbolKind) String() string {
	return string(t)
}

type symbolNum uint16

func (n symbolNum) Int() int {
	return int(n)
}

// symbol packs a kind, a start/end-marker flag, and a number into 16 bits. Terminals and non-terminals
// are numbered independently, so a number is unique only within its kind.
type symbol uint16

func (s symbol) String() string {
	kind, isStart, isEOF, num := s.describe()
	var prefix string
	switch {
	case isStart:
		prefix = "s"
	case isEOF:
		prefix = "e"
	case kind == symbolKindNonTerminal:
		prefix = "n"
	case kind == symbolKindTerminal:
		prefix = "t"
	default:
		prefix = "?"
	}
	return fmt.Sprintf("%v%v", prefix, num)
}

const (
	maskKindPart    = uint16(0x8000) // 1000 0000 0000 0000
	maskNonTerminal = uint16(0x0000) // 0000 0000 0000 0000
	maskTerminal    = uint16(0x8000) // 1000 0000 0000 0000

	maskSubKindpart    = uint16(0x4000) // 0100 0000 0000 0000
	maskNonStartAndEOF = uint16(0x0000) // 0000 0000 0000 0000
	maskStartOrEOF     = uint16(0x4000) // 0100 0000 0000 0000

	maskNumberPart = uint16(0x3fff) // 0011 1111 1111 1111

	symbolNumStart = uint16(0x0001) // 0000 0000 0000 0001
	symbolNumEOF   = uint16(0x0001) // 0000 0000 0000 0001

	symbolNil   = symbol(0)                                                 // 0000 0000 0000 0000
	symbolStart = symbol(maskNonTerminal | maskStartOrEOF | symbolNumStart) // 0100 0000 0000 0001
	symbolEOF   = symbol(maskTerminal | maskStartOrEOF | symbolNumEOF)      // 1100 0000 0000 0001

	// SymbolNameEOF is the end marker. Grammar descriptions cannot use it as a terminal.
	SymbolNameEOF = "$"

	// SymbolNameEmpty is how the empty production is displayed.
	SymbolNameEmpty = "#"

	nonTerminalNumMin = symbolNum(2)
	terminalNumMin    = symbolNum(2)
	symbolNumMax      = symbolNum(0xffff) >> 2
)

func newSymbol(kind symbolKind, num symbolNum) (symbol, error) {
	if num > symbolNumMax {
		return symbolNil, fmt.Errorf("a symbol number exceeds the limit; limit: %v, passed: %v", symbolNumMax, num)
	}

	kindMask := maskNonTerminal
	if kind == symbolKindTerminal {
		kindMask = maskTerminal
	}
	return symbol(kindMask | maskNonStartAndEOF | uint16(num)), nil
}

func (s symbol) num() symbolNum {
	_, _, _, num := s.describe()
	return num
}

func (s symbol) isNil() bool {
	return s.num() == 0
}

func (s symbol) isStart() bool {
	if s.isNil() {
		return false
	}
	_, isStart, _, _ := s.describe()
	return isStart
}

func (s symbol) isEOF() bool {
	if s.isNil() {
		return false
	}
	_, _, isEOF, _ := s.describe()
	return isEOF
}

func (s symbol) isNonTerminal() bool {
	if s.isNil() {
		return false
	}
	kind, _, _, _ := s.describe()
	return kind == symbolKindNonTerminal
}

func (s symbol) isTerminal() bool {
	if s.isNil() {
		return false
	}
	return !s.isNonTerminal()
}

func (s symbol) describe() (symbolKind, bool, bool, symbolNum) {
	kind := symbolKindNonTerminal
	if uint16(s)&maskKindPart > 0 {
		kind = symbolKindTerminal
	}
	isStart := false
	isEOF := false
	if uint16(s)&maskSubKindpart > 0 {
		if kind == symbolKindNonTerminal {
			isStart = true
		} else {
			isEOF = true
		}
	}
	num := symbolNum(uint16(s) & maskNumberPart)
	return kind, isStart, isEOF, num
}

// symbolTable numbers symbols in order of registration. Index 0 of each text list is the nil symbol,
// index 1 of the terminal list is the end marker, and index 1 of the non-terminal list is the start symbol.
type symbolTable struct {
	text2Term    map[string]symbol
	text2NonTerm map[string]symbol
	termTexts    []string
	nonTermTexts []string
}

func newSymbolTable() *symbolTable {
	return &symbolTable{
		text2Term: map[string]symbol{
			SymbolNameEOF: symbolEOF,
		},
		text2NonTerm: map[string]symbol{},
		termTexts: []string{
			"",            // Nil
			SymbolNameEOF, // EOF
		},
		nonTermTexts: []string{
			"", // Nil
			"", // Start Symbol
		},
	}
}

func (t *symbolTable) registerStartSymbol(text string) symbol {
	t.text2NonTerm[text] = symbolStart
	t.nonTermTexts[symbolStart.num().Int()] = text
	return symbolStart
}

func (t *symbolTable) registerNonTerminalSymbol(text string) (symbol, error) {
	if sym, ok := t.text2NonTerm[text]; ok {
		return sym, nil
	}
	sym, err := newSymbol(symbolKindNonTerminal, symbolNum(len(t.nonTermTexts)))
	if err != nil {
		return symbolNil, err
	}
	t.text2NonTerm[text] = sym
	t.nonTermTexts = append(t.nonTermTexts, text)
	return sym, nil
}

func (t *symbolTable) registerTerminalSymbol(text string) (symbol, error) {
	if sym, ok := t.text2Term[text]; ok {
		return sym, nil
	}
	sym, err := newSymbol(symbolKindTerminal, symbolNum(len(t.termTexts)))
	if err != nil {
		return symbolNil, err
	}
	t.text2Term[text] = sym
	t.termTexts = append(t.termTexts, text)
	return sym, nil
}

func (t *symbolTable) toText(sym symbol) string {
	if sym.isTerminal() {
		return t.termTexts[sym.num()]
	}
	return t.nonTermTexts[sym.num()]
}

// terminalSymbols returns the terminals including the end marker in number order.
func (t *symbolTable) terminalSymbols() []symbol {
	syms := make([]symbol, 0, len(t.termTexts)-1)
	syms = append(syms, symbolEOF)
	for num := terminalNumMin; num.Int() < len(t.termTexts); num++ {
		sym, _ := newSymbol(symbolKindTerminal, num)
		syms = append(syms, sym)
	}
	return syms
}

// nonTerminalSymbols returns the non-terminals including the start symbol in number order.
func (t *symbolTable) nonTerminalSymbols() []symbol {
	syms := make([]symbol, 0, len(t.nonTermTexts)-1)
	syms = append(syms, symbolStart)
	for num := nonTerminalNumMin; num.Int() < len(t.nonTermTexts); num++ {
		sym, _ := newSymbol(symbolKindNonTerminal, num)
		syms = append(syms, sym)
	}
	return syms
}
