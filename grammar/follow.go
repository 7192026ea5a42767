package grammar

import (
	"fmt"
	"sort"
)

type followEntry struct {
	symbols map[symbol]struct{}
	eof     bool
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: map[symbol]struct{}{},
		eof:     false,
	}
}

func (e *followEntry) add(sym symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *followEntry) addEOF() bool {
	if !e.eof {
		e.eof = true
		return true
	}
	return false
}

func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false

	if fst != nil {
		for sym := range fst.symbols {
			if e.add(sym) {
				changed = true
			}
		}
	}

	if flw != nil {
		for sym := range flw.symbols {
			if e.add(sym) {
				changed = true
			}
		}
		if flw.eof {
			if e.addEOF() {
				changed = true
			}
		}
	}

	return changed
}

// sortedSymbols returns the terminals of the entry in number order. The end marker comes first when present.
func (e *followEntry) sortedSymbols() []symbol {
	syms := make([]symbol, 0, len(e.symbols)+1)
	for sym := range e.symbols {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	if e.eof {
		syms = append([]symbol{symbolEOF}, syms...)
	}
	return syms
}

type followSet struct {
	set map[symbol]*followEntry
}

func newFollow(prods *productionSet) *followSet {
	flw := &followSet{
		set: map[symbol]*followEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := flw.set[prod.lhs]; ok {
			continue
		}
		flw.set[prod.lhs] = newFollowEntry()
	}
	return flw
}

func (flw *followSet) find(sym symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

// genFollowSet computes FOLLOW of every non-terminal. FOLLOW of the start symbol contains the end marker.
// Each pass scans every RHS from right to left carrying a trailer, the set of terminals that can follow
// the current position, and passes repeat until nothing is added.
func genFollowSet(prods *productionSet, first *firstSet) (*followSet, error) {
	flw := newFollow(prods)
	if e, ok := flw.set[symbolStart]; ok {
		e.addEOF()
	}

	for {
		more := false
		for _, prod := range prods.getAllProductions() {
			lhsFlw, err := flw.find(prod.lhs)
			if err != nil {
				return nil, err
			}
			trailer := newFollowEntry()
			trailer.merge(nil, lhsFlw)
			for i := prod.rhsLen - 1; i >= 0; i-- {
				sym := prod.rhs[i]
				if sym.isTerminal() {
					trailer = newFollowEntry()
					trailer.add(sym)
					continue
				}

				e, err := flw.find(sym)
				if err != nil {
					return nil, err
				}
				if e.merge(nil, trailer) {
					more = true
				}

				fst := first.findBySymbol(sym)
				if fst == nil {
					return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
				}
				if !fst.empty {
					trailer = newFollowEntry()
				}
				trailer.merge(fst, nil)
			}
		}
		if !more {
			break
		}
	}

	return flw, nil
}
