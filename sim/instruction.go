package sim

import "fmt"

// Op is an instruction opcode.
type Op byte

const (
	OpContext Op = 'c' // switch the current process
	OpRead    Op = 'r'
	OpWrite   Op = 'w'
)

// IsValidOp returns true for the three recognized opcodes.
func IsValidOp(op Op) bool {
	return op == OpContext || op == OpRead || op == OpWrite
}

// Instruction is one script line: a context switch to process Arg, or an access to page Arg.
type Instruction struct {
	Op  Op
	Arg int
}

func (i Instruction) String() string {
	return fmt.Sprintf("%c %d", i.Op, i.Arg)
}

// InstructionSource yields the script in order. Next returns false once exhausted.
type InstructionSource interface {
	Next() (Instruction, bool, error)
}

// SliceSource is an in-memory, restartable InstructionSource.
type SliceSource struct {
	Instructions []Instruction
	pos          int
}

// NewSliceSource creates a SliceSource positioned at the first instruction.
func NewSliceSource(instructions []Instruction) *SliceSource {
	return &SliceSource{Instructions: instructions}
}

func (s *SliceSource) Next() (Instruction, bool, error) {
	if s.pos >= len(s.Instructions) {
		return Instruction{}, false, nil
	}
	inst := s.Instructions[s.pos]
	s.pos++
	return inst, true, nil
}

// Reset rewinds the source to the first instruction.
func (s *SliceSource) Reset() {
	s.pos = 0
}
