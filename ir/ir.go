// Package ir defines the three-address instructions that connect the semantic analyzer and the code generator.
package ir

import (
	"errors"
	"fmt"
	"io"
)

type Opcode string

const (
	OpLabel         = Opcode("label")
	OpGoto          = Opcode("goto")
	OpGotoSave      = Opcode("goto_save")
	OpExit          = Opcode("exit")
	OpAssign        = Opcode("assign")
	OpLoadImmediate = Opcode("load_immediate")
	OpLoadVar       = Opcode("load_var")
	OpGT            = Opcode(">")
	OpLT            = Opcode("<")
	OpGE            = Opcode(">=")
	OpLE            = Opcode("<=")
	OpEQ            = Opcode("==")
	OpMul           = Opcode("*")
	OpSub           = Opcode("-")
	OpAdd           = Opcode("+")
	OpDiv           = Opcode("/")
	OpBitAnd        = Opcode("&")
	OpBitOr         = Opcode("|")
	OpAnd           = Opcode("&&")
	OpOr            = Opcode("||")
	OpReturn        = Opcode("return")
	OpPut           = Opcode("put")
	OpGet           = Opcode("get")
)

// FuncEntry in Arg1 of a label marks the entry of a function body.
const FuncEntry = "func"

// Zero in Arg1 of an assign stores zero instead of a temporary.
const Zero = "0"

// IsComparison reports whether op is a conditional branch. The branch target is the Result of the instruction.
func (op Opcode) IsComparison() bool {
	switch op {
	case OpGT, OpLT, OpGE, OpLE, OpEQ:
		return true
	}
	return false
}

// IsBinary reports whether op combines two temporaries into a third one.
func (op Opcode) IsBinary() bool {
	switch op {
	case OpMul, OpSub, OpAdd, OpDiv, OpBitAnd, OpBitOr, OpAnd, OpOr:
		return true
	}
	return false
}

// Instruction is a three-address instruction. Operands are literals, temporaries, stack offsets, or labels
// depending on the opcode.
type Instruction struct {
	Op     Opcode
	Arg1   string
	Arg2   string
	Result string
}

func (i *Instruction) String() string {
	return fmt.Sprintf("%-7v, %-6v, %-6v, %-6v", string(i.Op), i.Arg1, i.Arg2, i.Result)
}

var (
	ErrNothingToBackpatch = errors.New("no instruction to backpatch")
	ErrNotBackpatchable   = errors.New("the last instruction is not a pending comparison")
)

// Stream is an append-only instruction sequence with a generator of temporaries.
type Stream struct {
	insts     []*Instruction
	tempCount int
}

func NewStream() *Stream {
	return &Stream{}
}

func (s *Stream) Emit(op Opcode, arg1, arg2, result string) *Instruction {
	inst := &Instruction{
		Op:     op,
		Arg1:   arg1,
		Arg2:   arg2,
		Result: result,
	}
	s.insts = append(s.insts, inst)
	return inst
}

// NewTemp returns a fresh temporary: temp0, temp1, and so on.
func (s *Stream) NewTemp() string {
	t := fmt.Sprintf("temp%v", s.tempCount)
	s.tempCount++
	return t
}

// Backpatch sets the branch target of the most recent instruction. That instruction must be a comparison
// whose target is still empty.
func (s *Stream) Backpatch(label string) error {
	if len(s.insts) == 0 {
		return ErrNothingToBackpatch
	}
	last := s.insts[len(s.insts)-1]
	if !last.Op.IsComparison() || last.Result != "" {
		return fmt.Errorf("%w: %v", ErrNotBackpatchable, last)
	}
	last.Result = label
	return nil
}

// Instructions returns the emitted instructions in order.
func (s *Stream) Instructions() []*Instruction {
	insts := make([]*Instruction, len(s.insts))
	copy(insts, s.insts)
	return insts
}

func (s *Stream) Len() int {
	return len(s.insts)
}

// WriteListing writes one instruction per line in fixed-width columns.
func WriteListing(w io.Writer, insts []*Instruction) error {
	for _, inst := range insts {
		if _, err := fmt.Fprintf(w, "%v\n", inst); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stream) WriteListing(w io.Writer) error {
	return WriteListing(w, s.insts)
}
