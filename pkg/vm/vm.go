// Package vm implements the stack-based bytecode virtual machine: a
// fixed opcode set, little-endian immediate encoding, and hard resource
// limits on stack depth, state slots, locals and registered host
// functions.
package vm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/kryonlabs/kryon-core/internal/logx"
	"github.com/kryonlabs/kryon-core/pkg/kryval"
)

var (
	ErrStackOverflow    = errors.New("vm: operand stack overflow")
	ErrStackUnderflow   = errors.New("vm: operand stack underflow")
	ErrStateFull        = errors.New("vm: state table full")
	ErrLocalsFull       = errors.New("vm: local slot table full")
	ErrHostFuncsFull    = errors.New("vm: host function table full")
	ErrHostDuplicate    = errors.New("vm: host function id already registered")
	ErrDivideByZero     = errors.New("vm: division by zero")
	ErrModuloByZero     = errors.New("vm: modulo by zero")
	ErrUnknownOpcode    = errors.New("vm: unknown opcode")
	ErrLocalIndexOOB    = errors.New("vm: local id beyond the fixed local-table limit")
	ErrJumpTargetOOB    = errors.New("vm: jump target out of bounds")
	ErrTruncatedProgram = errors.New("vm: instruction truncated at end of program")
	ErrTypeMismatch     = errors.New("vm: operand type mismatch")
)

var vmLog = logx.New("vm")

// HostFunction is a capability exposed to bytecode via OpCallHost. The
// CALL_HOST instruction carries only a function id, no arity — so a
// HostFunction pops its own arguments off vm's operand stack (via
// vm.Pop) and pushes its own result, the same convention a builtin
// opcode uses.
type HostFunction func(vm *VM) error

type hostEntry struct {
	name string
	fn   HostFunction
}

// Program is one compiled function body: its instruction stream, with
// immediates encoded inline (no constant pool).
type Program struct {
	Code []byte
}

// StateChange is reported to a VM's OnStateChange hook whenever
// OpSetState runs, so a host can re-render or persist the new value.
type StateChange struct {
	ID  uint32
	Old kryval.Value
	New kryval.Value
}

// VM executes one Program against a fixed-size operand stack, an
// auto-extending local slot table and a sparse, id-keyed state table. A
// VM is not safe for concurrent use; the host owns serializing calls into
// a single reactive variable's handlers.
type VM struct {
	Program *Program

	stack []kryval.Value

	// locals is dense and auto-extends on SET_LOCAL up to MaxLocals;
	// GET_LOCAL on an index past the current length yields INT 0 rather
	// than erroring.
	locals []kryval.Value

	// state is sparse: state ids are identifiers a compiler assigns,
	// not dense array indices, so a map keyed by id — capped at
	// MaxStateEntries distinct ids — is the natural representation.
	state map[uint32]kryval.Value

	host map[uint32]hostEntry

	// functions holds the bytecode streams LoadFunction assembled, keyed
	// by function id for CallFunction dispatch.
	functions map[uint32]*Program

	// lastError holds the error that halted the most recent Run, nil
	// after a clean run. The VM stays usable after an error; a new Run
	// clears it.
	lastError error

	OnStateChange func(StateChange)
	Metrics       Metrics
}

// LastError reports the error that halted the most recent Run, or nil.
func (vm *VM) LastError() error { return vm.lastError }

// New builds a VM ready to run prog, with empty state and local tables.
func New(prog *Program) *VM {
	return &VM{
		Program: prog,
		stack:   make([]kryval.Value, 0, 16),
		locals:  make([]kryval.Value, 0, MaxLocals),
		state:   make(map[uint32]kryval.Value, MaxStateEntries),
		host:    make(map[uint32]hostEntry, MaxHostFuncs),
		Metrics: GetGlobalMetrics(),
	}
}

// SetStateValue registers or updates state id with v directly, bypassing
// bytecode — used by a host to seed a reactive variable's initial value
// before Run. Returns ErrStateFull if id is new and the table is already
// at MaxStateEntries.
func (vm *VM) SetStateValue(id uint32, v kryval.Value) error {
	if _, exists := vm.state[id]; !exists && len(vm.state) >= MaxStateEntries {
		return ErrStateFull
	}
	vm.state[id] = v
	return nil
}

// State returns the current value of state id, or INT 0 if id has never
// been written.
func (vm *VM) State(id uint32) kryval.Value {
	if v, ok := vm.state[id]; ok {
		return v
	}
	return kryval.Int(0)
}

// RegisterHostFunction registers fn under id and name; CALL_HOST
// dispatches by id, metrics and logs report by name.
func (vm *VM) RegisterHostFunction(id uint32, name string, fn HostFunction) error {
	if _, exists := vm.host[id]; exists {
		return ErrHostDuplicate
	}
	if len(vm.host) >= MaxHostFuncs {
		return ErrHostFuncsFull
	}
	vm.host[id] = hostEntry{name: name, fn: fn}
	return nil
}

// Pop removes and returns the top operand stack value. Exported so a
// HostFunction can pop its own arguments.
func (vm *VM) Pop() (kryval.Value, error) { return vm.pop() }

// Push places v on top of the operand stack. Exported so a HostFunction
// can push its own result.
func (vm *VM) Push(v kryval.Value) error { return vm.push(v) }

func (vm *VM) push(v kryval.Value) error {
	if len(vm.stack) >= MaxStackDepth {
		return ErrStackOverflow
	}
	vm.stack = append(vm.stack, v)
	if vm.Metrics != nil {
		vm.Metrics.RecordStackDepth(len(vm.stack))
	}
	return nil
}

func (vm *VM) pop() (kryval.Value, error) {
	if len(vm.stack) == 0 {
		return kryval.Null, ErrStackUnderflow
	}
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v, nil
}

func (vm *VM) top() (kryval.Value, error) {
	if len(vm.stack) == 0 {
		return kryval.Null, ErrStackUnderflow
	}
	return vm.stack[len(vm.stack)-1], nil
}

func (vm *VM) getLocal(id uint32) kryval.Value {
	idx := int(id)
	if idx < 0 || idx >= len(vm.locals) {
		return kryval.Int(0)
	}
	return vm.locals[idx]
}

func (vm *VM) setLocal(id uint32, v kryval.Value) error {
	idx := int(id)
	if idx < 0 || idx >= MaxLocals {
		return ErrLocalIndexOOB
	}
	for len(vm.locals) <= idx {
		vm.locals = append(vm.locals, kryval.Int(0))
	}
	vm.locals[idx] = v
	return nil
}

func (vm *VM) recordError(kind string) {
	if vm.Metrics != nil {
		vm.Metrics.RecordError(kind)
	}
}

// Run executes the program from pc 0 until OpHalt or the instruction
// stream is exhausted, returning the final operand stack (empty programs
// and programs that end without an explicit HALT both return normally).
// The first runtime error halts the run and is retained for LastError.
//
// JUMP/JUMP_IF_FALSE targets are absolute byte offsets into
// Program.Code rather than a relative displacement: a relative base
// invites an off-by-one at every jump-emitting call site, so this VM
// pins one unambiguous convention everywhere — a bare absolute pc.
func (vm *VM) Run() ([]kryval.Value, error) {
	stack, err := vm.run()
	vm.lastError = err
	return stack, err
}

func (vm *VM) run() ([]kryval.Value, error) {
	code := vm.Program.Code
	pc := 0
	executed := 0

	for pc < len(code) {
		op := Opcode(code[pc])
		pc++
		executed++

		switch op {
		case OpHalt:
			if vm.Metrics != nil {
				vm.Metrics.RecordExecution("", executed)
			}
			return vm.stack, nil

		case OpPushInt:
			v, n, err := readI64(code, pc)
			if err != nil {
				return nil, err
			}
			pc += n
			if err := vm.push(kryval.Int(v)); err != nil {
				vm.recordError("stack_overflow")
				return nil, err
			}

		case OpPushFloat:
			v, n, err := readF64(code, pc)
			if err != nil {
				return nil, err
			}
			pc += n
			if err := vm.push(kryval.Float(v)); err != nil {
				vm.recordError("stack_overflow")
				return nil, err
			}

		case OpPushString:
			s, n, err := readStr(code, pc)
			if err != nil {
				return nil, err
			}
			pc += n
			if err := vm.push(kryval.String(s)); err != nil {
				vm.recordError("stack_overflow")
				return nil, err
			}

		case OpPushBool:
			if pc >= len(code) {
				return nil, ErrTruncatedProgram
			}
			b := code[pc] != 0
			pc++
			if err := vm.push(kryval.Bool(b)); err != nil {
				vm.recordError("stack_overflow")
				return nil, err
			}

		case OpPop:
			if _, err := vm.pop(); err != nil {
				vm.recordError("stack_underflow")
				return nil, err
			}

		case OpDup:
			v, err := vm.top()
			if err != nil {
				vm.recordError("stack_underflow")
				return nil, err
			}
			if err := vm.push(v.Clone()); err != nil {
				vm.recordError("stack_overflow")
				return nil, err
			}

		case OpAdd, OpSub, OpMul, OpDiv, OpMod:
			if err := vm.execArith(op); err != nil {
				vm.recordError("arith")
				return nil, err
			}

		case OpNeg:
			a, err := vm.pop()
			if err != nil {
				return nil, err
			}
			f, ok := a.AsFloat()
			if !ok {
				vm.recordError("type_mismatch")
				return nil, ErrTypeMismatch
			}
			if a.Kind() == kryval.KindInt {
				if err := vm.push(kryval.Int(-a.Int())); err != nil {
					return nil, err
				}
			} else {
				if err := vm.push(kryval.Float(-f)); err != nil {
					return nil, err
				}
			}

		case OpEq, OpNe:
			b, err := vm.pop()
			if err != nil {
				return nil, err
			}
			a, err := vm.pop()
			if err != nil {
				return nil, err
			}
			eq := a.Equal(b)
			if op == OpNe {
				eq = !eq
			}
			if err := vm.push(kryval.Bool(eq)); err != nil {
				return nil, err
			}

		case OpLt, OpGt, OpLe, OpGe:
			if err := vm.execCompare(op); err != nil {
				vm.recordError("compare")
				return nil, err
			}

		case OpAnd, OpOr:
			b, err := vm.pop()
			if err != nil {
				return nil, err
			}
			a, err := vm.pop()
			if err != nil {
				return nil, err
			}
			if a.Kind() != kryval.KindBool || b.Kind() != kryval.KindBool {
				vm.recordError("type_mismatch")
				return nil, ErrTypeMismatch
			}
			var result bool
			if op == OpAnd {
				result = a.Bool() && b.Bool()
			} else {
				result = a.Bool() || b.Bool()
			}
			if err := vm.push(kryval.Bool(result)); err != nil {
				return nil, err
			}

		case OpNot:
			a, err := vm.pop()
			if err != nil {
				return nil, err
			}
			if a.Kind() != kryval.KindBool {
				vm.recordError("type_mismatch")
				return nil, ErrTypeMismatch
			}
			if err := vm.push(kryval.Bool(!a.Bool())); err != nil {
				return nil, err
			}

		case OpConcat:
			b, err := vm.pop()
			if err != nil {
				return nil, err
			}
			a, err := vm.pop()
			if err != nil {
				return nil, err
			}
			if err := vm.push(kryval.String(a.String() + b.String())); err != nil {
				return nil, err
			}

		case OpGetState:
			id, n, err := readU32(code, pc)
			if err != nil {
				return nil, err
			}
			pc += n
			if err := vm.push(vm.State(id)); err != nil {
				vm.recordError("stack_overflow")
				return nil, err
			}

		case OpSetState:
			id, n, err := readU32(code, pc)
			if err != nil {
				return nil, err
			}
			pc += n
			v, err := vm.pop()
			if err != nil {
				return nil, err
			}
			old := vm.State(id)
			if err := vm.SetStateValue(id, v); err != nil {
				vm.recordError("state_full")
				return nil, err
			}
			if vm.OnStateChange != nil {
				vm.OnStateChange(StateChange{ID: id, Old: old, New: v})
			}

		case OpGetLocal:
			id, n, err := readU32(code, pc)
			if err != nil {
				return nil, err
			}
			pc += n
			if err := vm.push(vm.getLocal(id)); err != nil {
				vm.recordError("stack_overflow")
				return nil, err
			}

		case OpSetLocal:
			id, n, err := readU32(code, pc)
			if err != nil {
				return nil, err
			}
			pc += n
			v, err := vm.pop()
			if err != nil {
				return nil, err
			}
			if err := vm.setLocal(id, v); err != nil {
				vm.recordError("local_oob")
				return nil, err
			}

		case OpJump:
			target, n, err := readI32(code, pc)
			if err != nil {
				return nil, err
			}
			_ = n
			if target < 0 || target > len(code) {
				vm.recordError("jump_oob")
				return nil, ErrJumpTargetOOB
			}
			pc = target

		case OpJumpIfFalse:
			target, n, err := readI32(code, pc)
			if err != nil {
				return nil, err
			}
			pc += n
			cond, err := vm.pop()
			if err != nil {
				return nil, err
			}
			if !cond.Bool() {
				if target < 0 || target > len(code) {
					vm.recordError("jump_oob")
					return nil, ErrJumpTargetOOB
				}
				pc = target
			}

		case OpCallHost:
			id, n, err := readU32(code, pc)
			if err != nil {
				return nil, err
			}
			pc += n
			entry, ok := vm.host[uint32(id)]
			if !ok {
				// Graceful degradation: an unknown host
				// id logs and the run continues, it never aborts.
				vmLog.Warnf("call_host: unregistered function id %d", id)
				vm.recordError("host_unknown")
				continue
			}
			if err := entry.fn(vm); err != nil {
				return nil, err
			}
			if vm.Metrics != nil {
				vm.Metrics.RecordHostCall(entry.name)
			}

		case OpCall, OpReturn, OpGetProp, OpSetProp:
			return nil, fmt.Errorf("%w: opcode 0x%02x reserved for future use", ErrUnknownOpcode, byte(op))

		default:
			vm.recordError("unknown_opcode")
			return nil, fmt.Errorf("%w: 0x%02x at pc %d", ErrUnknownOpcode, byte(op), pc-1)
		}
	}

	if vm.Metrics != nil {
		vm.Metrics.RecordExecution("", executed)
	}
	return vm.stack, nil
}

func (vm *VM) execArith(op Opcode) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	af, aok := a.AsFloat()
	bf, bok := b.AsFloat()
	if !aok || !bok {
		return ErrTypeMismatch
	}
	bothInt := a.Kind() == kryval.KindInt && b.Kind() == kryval.KindInt
	switch op {
	case OpAdd:
		if bothInt {
			return vm.push(kryval.Int(a.Int() + b.Int()))
		}
		return vm.push(kryval.Float(af + bf))
	case OpSub:
		if bothInt {
			return vm.push(kryval.Int(a.Int() - b.Int()))
		}
		return vm.push(kryval.Float(af - bf))
	case OpMul:
		if bothInt {
			return vm.push(kryval.Int(a.Int() * b.Int()))
		}
		return vm.push(kryval.Float(af * bf))
	case OpDiv:
		if bothInt {
			if b.Int() == 0 {
				return ErrDivideByZero
			}
			return vm.push(kryval.Int(a.Int() / b.Int()))
		}
		if bf == 0 {
			return ErrDivideByZero
		}
		return vm.push(kryval.Float(af / bf))
	case OpMod:
		if !bothInt {
			return ErrTypeMismatch
		}
		if b.Int() == 0 {
			return ErrModuloByZero
		}
		return vm.push(kryval.Int(a.Int() % b.Int()))
	}
	return ErrUnknownOpcode
}

func (vm *VM) execCompare(op Opcode) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	af, aok := a.AsFloat()
	bf, bok := b.AsFloat()
	if !aok || !bok {
		return ErrTypeMismatch
	}
	var result bool
	switch op {
	case OpLt:
		result = af < bf
	case OpGt:
		result = af > bf
	case OpLe:
		result = af <= bf
	case OpGe:
		result = af >= bf
	}
	return vm.push(kryval.Bool(result))
}

func readU32(code []byte, pc int) (uint32, int, error) {
	if pc+4 > len(code) {
		return 0, 0, ErrTruncatedProgram
	}
	return binary.LittleEndian.Uint32(code[pc : pc+4]), 4, nil
}

func readI32(code []byte, pc int) (int, int, error) {
	u, n, err := readU32(code, pc)
	if err != nil {
		return 0, 0, err
	}
	return int(int32(u)), n, nil
}

func readI64(code []byte, pc int) (int64, int, error) {
	if pc+8 > len(code) {
		return 0, 0, ErrTruncatedProgram
	}
	return int64(binary.LittleEndian.Uint64(code[pc : pc+8])), 8, nil
}

func readF64(code []byte, pc int) (float64, int, error) {
	if pc+8 > len(code) {
		return 0, 0, ErrTruncatedProgram
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(code[pc : pc+8])), 8, nil
}

func readStr(code []byte, pc int) (string, int, error) {
	length, n, err := readU32(code, pc)
	if err != nil {
		return "", 0, err
	}
	start := pc + n
	end := start + int(length)
	if end > len(code) {
		return "", 0, ErrTruncatedProgram
	}
	return string(code[start:end]), n + int(length), nil
}
