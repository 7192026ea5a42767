package grammar

// nullableSet holds the non-terminals that derive the empty string.
type nullableSet struct {
	set map[symbol]struct{}
}

func (ns *nullableSet) contains(sym symbol) bool {
	_, ok := ns.set[sym]
	return ok
}

func (ns *nullableSet) add(sym symbol) bool {
	if ns.contains(sym) {
		return false
	}
	ns.set[sym] = struct{}{}
	return true
}

// symbols returns the nullable non-terminals in number order.
func (ns *nullableSet) symbols(symTab *symbolTable) []symbol {
	var syms []symbol
	for _, sym := range symTab.nonTerminalSymbols() {
		if ns.contains(sym) {
			syms = append(syms, sym)
		}
	}
	return syms
}

// genNullableSet marks the LHS of every production whose RHS consists only of nullable non-terminals,
// repeating until a pass marks nothing new. An empty RHS is trivially nullable.
func genNullableSet(prods *productionSet) *nullableSet {
	ns := &nullableSet{
		set: map[symbol]struct{}{},
	}
	for {
		more := false
		for _, prod := range prods.getAllProductions() {
			if ns.contains(prod.lhs) || !ns.allNullable(prod.rhs) {
				continue
			}
			if ns.add(prod.lhs) {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return ns
}

func (ns *nullableSet) allNullable(syms []symbol) bool {
	for _, sym := range syms {
		if sym.isTerminal() || !ns.contains(sym) {
			return false
		}
	}
	return true
}
