package vm

import (
	"errors"
	"fmt"

	"github.com/kryonlabs/kryon-core/pkg/kryval"
)

// Instruction is the in-memory, pre-serialization form of one bytecode
// instruction: an opcode plus a tagged immediate. LoadFunction flattens a
// list of these into the inline-immediate byte stream Run executes.
type Instruction struct {
	Op Opcode

	// Exactly one of the fields below is read, selected by Op.
	Int    int64   // OpPushInt
	Float  float64 // OpPushFloat
	Str    string  // OpPushString
	Bool   bool    // OpPushBool
	ID     uint32  // OpGetState/OpSetState/OpGetLocal/OpSetLocal/OpCallHost
	Target int32   // OpJump/OpJumpIfFalse
}

// ErrFunctionUnknown is returned by CallFunction for an id LoadFunction
// never saw.
var ErrFunctionUnknown = errors.New("vm: unknown function id")

// LoadFunction assembles instrs into a bytecode stream and stores it under
// id, replacing any previous load for the same id.
func (vm *VM) LoadFunction(id uint32, instrs []Instruction) error {
	var asm Assembler
	for i, ins := range instrs {
		asm.Op(ins.Op)
		switch ins.Op {
		case OpPushInt:
			asm.I64(ins.Int)
		case OpPushFloat:
			asm.F64(ins.Float)
		case OpPushString:
			asm.Str(ins.Str)
		case OpPushBool:
			asm.Bool(ins.Bool)
		case OpGetState, OpSetState, OpGetLocal, OpSetLocal, OpCallHost:
			asm.U32(ins.ID)
		case OpJump, OpJumpIfFalse:
			asm.I32(ins.Target)
		case OpPop, OpDup, OpAdd, OpSub, OpMul, OpDiv, OpMod, OpNeg,
			OpEq, OpNe, OpLt, OpGt, OpLe, OpGe, OpAnd, OpOr, OpNot,
			OpConcat, OpHalt:
			// no immediate
		default:
			return fmt.Errorf("%w: 0x%02x at instruction %d", ErrUnknownOpcode, byte(ins.Op), i)
		}
	}
	if vm.functions == nil {
		vm.functions = make(map[uint32]*Program)
	}
	vm.functions[id] = &Program{Code: asm.Code()}
	return nil
}

// CallFunction executes the function loaded under id against this VM's
// state, local and host tables. The operand stack is reset first so one
// dispatch's leftovers never leak into the next.
func (vm *VM) CallFunction(id uint32) ([]kryval.Value, error) {
	prog, ok := vm.functions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrFunctionUnknown, id)
	}
	vm.Program = prog
	vm.stack = vm.stack[:0]
	return vm.Run()
}
