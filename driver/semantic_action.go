package driver

// ParseActionSet observes the steps of a parser. The parser builds the parse tree by itself, so an
// action set only needs to implement tracing or statistics.
type ParseActionSet interface {
	// Expand runs when the parser replaces a non-terminal with the RHS of a production.
	Expand(nonTerminal string, prodNum int)

	// Match runs when a token matches the terminal on the top of the stack.
	Match(terminal string, tok VToken)

	// Skip runs when the parser discards a token because the table has no entry for it.
	Skip(nonTerminal string, tok VToken)

	// Discard runs when the parser pops an expected symbol to recover from an error. `synch` is true when
	// the symbol is a non-terminal popped by a synch entry.
	Discard(symbol string, tok VToken, synch bool)
}

// NopActionSet ignores every step. Embed it to implement only some of the callbacks.
type NopActionSet struct{}

var _ ParseActionSet = NopActionSet{}

func (NopActionSet) Expand(nonTerminal string, prodNum int) {}

func (NopActionSet) Match(terminal string, tok VToken) {}

func (NopActionSet) Skip(nonTerminal string, tok VToken) {}

func (NopActionSet) Discard(symbol string, tok VToken, synch bool) {}
