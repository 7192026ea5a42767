// Package codegen lowers three-address code to MIPS assembly for SPIM.
package codegen

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nihei9/lilac/ir"
)

// MaxRegisters is the size of the register pool: $t0 through $t7.
const MaxRegisters = 8

var (
	ErrRegisterPressure = errors.New("too many live temporaries")
	ErrUnknownTemporary = errors.New("unknown temporary")
	ErrUnknownOpcode    = errors.New("unknown opcode")
)

const preamble = ".data\nprompt: .asciiz \"enter an integer : \"\nend: .asciiz \"\\n\"\n\n.text\n"

const (
	readRoutine  = "\nread:\nli $v0 4\nla $a0 prompt\nsyscall\nli $v0 5\nsyscall\njr $ra\n"
	writeRoutine = "\nwrite:\nli $v0 1\nsyscall\nli $v0 4\nla $a0 end\nsyscall\njr $ra\n"
)

// GenError reports the instruction that could not be lowered. Index is its position in the input.
type GenError struct {
	Cause       error
	Index       int
	Instruction *ir.Instruction
}

func (e *GenError) Error() string {
	return fmt.Sprintf("instruction %v (%v): %v", e.Index, strings.TrimSpace(e.Instruction.String()), e.Cause)
}

func (e *GenError) Unwrap() error {
	return e.Cause
}

type GenerateOption func(g *generator) error

// Registers limits the pool to $t0 through $t<n-1>.
func Registers(n int) GenerateOption {
	return func(g *generator) error {
		if n < 1 || n > MaxRegisters {
			return fmt.Errorf("the register count must be between 1 and %v: %v", MaxRegisters, n)
		}
		g.registerCount = n
		return nil
	}
}

type generator struct {
	registerCount int

	// free is a stack of unused register numbers. The top is the end of the slice.
	free []int
	regs map[string]int

	// nextSpill is the next free slot for saving registers across a call. Spill slots lie below every
	// slot the program addresses, and each call site gets its own.
	nextSpill int
	b         strings.Builder
}

// Generate lowers insts to a complete assembly program. Registers are allocated in instruction order:
// a temporary takes a register when it is defined and gives it back when it is used.
func Generate(insts []*ir.Instruction, opts ...GenerateOption) (string, error) {
	g := &generator{
		registerCount: MaxRegisters,
		regs:          map[string]int{},
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return "", err
		}
	}
	for r := g.registerCount - 1; r >= 0; r-- {
		g.free = append(g.free, r)
	}
	g.nextSpill = lowestSlot(insts) - 4

	g.b.WriteString(preamble)
	for i, inst := range insts {
		if err := g.translate(inst); err != nil {
			return "", &GenError{
				Cause:       err,
				Index:       i,
				Instruction: inst,
			}
		}
	}
	g.b.WriteString(readRoutine)
	g.b.WriteString(writeRoutine)

	return g.b.String(), nil
}

func (g *generator) acquire(temp string) (int, error) {
	if len(g.free) == 0 {
		return 0, ErrRegisterPressure
	}
	r := g.free[len(g.free)-1]
	g.free = g.free[:len(g.free)-1]
	g.regs[temp] = r
	return r, nil
}

func (g *generator) release(temp string) (int, error) {
	r, ok := g.regs[temp]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownTemporary, temp)
	}
	delete(g.regs, temp)
	g.free = append(g.free, r)
	return r, nil
}

type spill struct {
	reg  int
	slot int
}

func (g *generator) spillLive() []*spill {
	regs := make([]int, 0, len(g.regs))
	for _, r := range g.regs {
		regs = append(regs, r)
	}
	sort.Ints(regs)

	spills := make([]*spill, len(regs))
	for i, r := range regs {
		spills[i] = &spill{
			reg:  r,
			slot: g.nextSpill,
		}
		g.nextSpill -= 4
		g.emit("sw $t%v %v($sp)", r, spills[i].slot)
	}
	return spills
}

// lowestSlot returns the lowest stack slot insts address, or 0.
func lowestSlot(insts []*ir.Instruction) int {
	low := 0
	for _, inst := range insts {
		var slot string
		switch inst.Op {
		case ir.OpAssign, ir.OpGet:
			slot = inst.Result
		case ir.OpLoadVar, ir.OpReturn:
			slot = inst.Arg1
		case ir.OpLabel:
			if inst.Arg1 == ir.FuncEntry {
				slot = inst.Arg2
			}
		}
		o, err := strconv.Atoi(slot)
		if err == nil && o < low {
			low = o
		}
	}
	return low
}

// releasePair gives back the registers of both operands, the second one first.
func (g *generator) releasePair(inst *ir.Instruction) (int, int, error) {
	r2, err := g.release(inst.Arg2)
	if err != nil {
		return 0, 0, err
	}
	r1, err := g.release(inst.Arg1)
	if err != nil {
		return 0, 0, err
	}
	return r1, r2, nil
}

func (g *generator) emit(format string, a ...interface{}) {
	fmt.Fprintf(&g.b, format, a...)
	g.b.WriteByte('\n')
}

var branches = map[ir.Opcode]string{
	ir.OpEQ: "beq",
	ir.OpGT: "bgt",
	ir.OpLT: "blt",
	ir.OpGE: "bge",
	ir.OpLE: "ble",
}

var arithmetic = map[ir.Opcode]string{
	ir.OpAdd:    "add",
	ir.OpSub:    "sub",
	ir.OpBitAnd: "and",
	ir.OpBitOr:  "or",
	ir.OpAnd:    "and",
	ir.OpOr:     "or",
}

func (g *generator) translate(inst *ir.Instruction) error {
	switch inst.Op {
	case ir.OpLabel:
		g.b.WriteByte('\n')
		g.emit("%v:", inst.Result)
		if inst.Arg1 == ir.FuncEntry {
			g.emit("sw $ra %v($sp)", inst.Arg2)
		}
	case ir.OpGoto:
		g.emit("j %v", inst.Result)
	case ir.OpGotoSave:
		// A callee allocates from the same pool, so live registers are saved around the call.
		spills := g.spillLive()
		g.emit("jal %v", inst.Result)
		for _, sp := range spills {
			g.emit("lw $t%v %v($sp)", sp.reg, sp.slot)
		}
		if inst.Arg1 != "" {
			r, err := g.acquire(inst.Arg1)
			if err != nil {
				return err
			}
			g.emit("move $t%v $v0", r)
		}
	case ir.OpExit:
		g.emit("li $v0 10")
		g.emit("syscall")
	case ir.OpAssign:
		if inst.Arg1 == ir.Zero {
			g.emit("sw $zero %v($sp)", inst.Result)
			return nil
		}
		r, err := g.release(inst.Arg1)
		if err != nil {
			return err
		}
		g.emit("sw $t%v %v($sp)", r, inst.Result)
	case ir.OpLoadImmediate:
		r, err := g.acquire(inst.Result)
		if err != nil {
			return err
		}
		g.emit("li $t%v %v", r, inst.Arg1)
	case ir.OpLoadVar:
		r, err := g.acquire(inst.Result)
		if err != nil {
			return err
		}
		g.emit("lw $t%v %v($sp)", r, inst.Arg1)
	case ir.OpEQ, ir.OpGT, ir.OpLT, ir.OpGE, ir.OpLE:
		r1, r2, err := g.releasePair(inst)
		if err != nil {
			return err
		}
		g.emit("%v $t%v $t%v %v", branches[inst.Op], r1, r2, inst.Result)
	case ir.OpMul, ir.OpDiv:
		r1, r2, err := g.releasePair(inst)
		if err != nil {
			return err
		}
		if inst.Op == ir.OpMul {
			g.emit("mult $t%v $t%v", r1, r2)
		} else {
			g.emit("div $t%v $t%v", r1, r2)
		}
		r3, err := g.acquire(inst.Result)
		if err != nil {
			return err
		}
		g.emit("mflo $t%v", r3)
	case ir.OpAdd, ir.OpSub, ir.OpBitAnd, ir.OpBitOr, ir.OpAnd, ir.OpOr:
		r1, r2, err := g.releasePair(inst)
		if err != nil {
			return err
		}
		if inst.Op == ir.OpAnd || inst.Op == ir.OpOr {
			// Any non-zero value counts as true; the result is 0 or 1.
			g.emit("sltu $t%v $zero $t%v", r1, r1)
			g.emit("sltu $t%v $zero $t%v", r2, r2)
		}
		r3, err := g.acquire(inst.Result)
		if err != nil {
			return err
		}
		g.emit("%v $t%v $t%v $t%v", arithmetic[inst.Op], r3, r1, r2)
	case ir.OpReturn:
		if inst.Result != "" {
			r, err := g.release(inst.Result)
			if err != nil {
				return err
			}
			g.emit("move $v0 $t%v", r)
		}
		g.emit("lw $ra %v($sp)", inst.Arg1)
		g.emit("jr $ra")
	case ir.OpGet:
		g.emit("jal read")
		g.emit("sw $v0 %v($sp)", inst.Result)
	case ir.OpPut:
		r, err := g.release(inst.Result)
		if err != nil {
			return err
		}
		g.emit("move $a0 $t%v", r)
		g.emit("jal write")
	default:
		return fmt.Errorf("%w: %v", ErrUnknownOpcode, inst.Op)
	}
	return nil
}
