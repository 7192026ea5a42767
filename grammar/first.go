package grammar

import (
	"fmt"
	"sort"
)

type firstEntry struct {
	symbols map[symbol]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: map[symbol]struct{}{},
		empty:   false,
	}
}

func (e *firstEntry) add(sym symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for sym := range target.symbols {
		if e.add(sym) {
			changed = true
		}
	}
	return changed
}

// sortedSymbols returns the terminals of the entry in number order.
func (e *firstEntry) sortedSymbols() []symbol {
	syms := make([]symbol, 0, len(e.symbols))
	for sym := range e.symbols {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

type firstSet struct {
	set map[symbol]*firstEntry
}

func newFirstSet(prods *productionSet) *firstSet {
	fst := &firstSet{
		set: map[symbol]*firstEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.lhs]; ok {
			continue
		}
		fst.set[prod.lhs] = newFirstEntry()
	}

	return fst
}

// find returns FIRST of the sentential form prod.rhs[head:]. The entry's empty flag is set when
// the whole form derives the empty string.
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	return fst.findBySymbols(prod.rhs[min(head, prod.rhsLen):])
}

func (fst *firstSet) findBySymbols(syms []symbol) (*firstEntry, error) {
	entry := newFirstEntry()
	for _, sym := range syms {
		if sym.isTerminal() {
			entry.add(sym)
			return entry, nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		entry.mergeExceptEmpty(e)
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

func (fst *firstSet) findBySymbol(sym symbol) *firstEntry {
	return fst.set[sym]
}

type firstComContext struct {
	first    *firstSet
	nullable *nullableSet
}

func newFirstComContext(prods *productionSet, nullable *nullableSet) *firstComContext {
	return &firstComContext{
		first:    newFirstSet(prods),
		nullable: nullable,
	}
}

// genFirstSet computes FIRST of every non-terminal. It repeats passes over the productions until a pass
// adds nothing, so the result is the least fixpoint.
func genFirstSet(prods *productionSet, nullable *nullableSet) (*firstSet, error) {
	cc := newFirstComContext(prods, nullable)
	for sym, e := range cc.first.set {
		if nullable.contains(sym) {
			e.addEmpty()
		}
	}
	for {
		more := false
		for _, prod := range prods.getAllProductions() {
			e := cc.first.findBySymbol(prod.lhs)
			changed, err := genProdFirstEntry(cc, e, prod)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return cc.first, nil
}

func genProdFirstEntry(cc *firstComContext, acc *firstEntry, prod *production) (bool, error) {
	changed := false
	for _, sym := range prod.rhs {
		if sym.isTerminal() {
			return acc.add(sym) || changed, nil
		}

		e := cc.first.findBySymbol(sym)
		if e == nil {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !cc.nullable.contains(sym) {
			return changed, nil
		}
	}
	return changed, nil
}
