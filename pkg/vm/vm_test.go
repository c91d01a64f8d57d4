package vm

import (
	"errors"
	"testing"

	"github.com/kryonlabs/kryon-core/pkg/kryval"
)

func TestRun_IncrementState(t *testing.T) {
	// state[0] = state[0] + 1; halt
	var asm Assembler
	asm.Op(OpGetState).U32(0)
	asm.Op(OpPushInt).I64(1)
	asm.Op(OpAdd)
	asm.Op(OpSetState).U32(0)
	asm.Op(OpHalt)

	prog := &Program{Code: asm.Code()}
	m := New(prog)
	if err := m.SetStateValue(0, kryval.Int(41)); err != nil {
		t.Fatalf("SetStateValue: %v", err)
	}

	var changes []StateChange
	m.OnStateChange = func(c StateChange) { changes = append(changes, c) }

	if _, err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := m.State(0); got.Int() != 42 {
		t.Fatalf("expected state 42, got %d", got.Int())
	}
	if len(changes) != 1 || changes[0].Old.Int() != 41 || changes[0].New.Int() != 42 {
		t.Fatalf("expected one state-change report old=41 new=42, got %+v", changes)
	}
}

// TestRun_RawBytecodeIncrement pins the wire encoding with a literal
// byte stream: GET_STATE 100, PUSH_INT 1, ADD, SET_STATE 100, HALT.
func TestRun_RawBytecodeIncrement(t *testing.T) {
	code := []byte{
		0x50, 100, 0, 0, 0,
		0x01, 1, 0, 0, 0, 0, 0, 0, 0,
		0x10,
		0x51, 100, 0, 0, 0,
		0xFF,
	}

	m := New(&Program{Code: code})
	var changes []StateChange
	m.OnStateChange = func(c StateChange) { changes = append(changes, c) }

	stack, err := m.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := m.State(100); got.Int() != 1 {
		t.Fatalf("expected state 100 == 1, got %d", got.Int())
	}
	if len(changes) != 1 || changes[0].ID != 100 || changes[0].Old.Int() != 0 || changes[0].New.Int() != 1 {
		t.Fatalf("expected one state-change (100, old=0, new=1), got %+v", changes)
	}
	if len(stack) != 0 {
		t.Fatalf("expected empty stack on halt, got %+v", stack)
	}
}

func TestRun_JumpIfFalseSkipsBranch(t *testing.T) {
	// if false: push 1 else push 2; halt
	var asm Assembler
	asm.Op(OpPushBool).Bool(false)
	skipTarget := 0
	jumpPos := len(asm.Code()) + 1 // offset of the i32 operand, patched below
	asm.Op(OpJumpIfFalse).I32(0)   // placeholder target
	asm.Op(OpPushInt).I64(1)       // then-branch: 1
	jumpOverThen := len(asm.Code()) + 1
	asm.Op(OpJump).I32(0) // placeholder, jumps past else branch
	skipTarget = asm.Label()
	asm.Op(OpPushInt).I64(2) // else-branch: 2
	end := asm.Label()
	asm.Op(OpHalt)

	code := asm.Code()
	patchI32(code, jumpPos, skipTarget)
	patchI32(code, jumpOverThen, end)

	prog := &Program{Code: code}
	stack, err := New(prog).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(stack) != 1 || stack[0].Int() != 2 {
		t.Fatalf("expected else-branch value 2 on stack, got %+v", stack)
	}
}

func patchI32(code []byte, at, value int) {
	code[at] = byte(value)
	code[at+1] = byte(value >> 8)
	code[at+2] = byte(value >> 16)
	code[at+3] = byte(value >> 24)
}

func TestRun_DivideByZeroIsRejected(t *testing.T) {
	var asm Assembler
	asm.Op(OpPushInt).I64(10)
	asm.Op(OpPushInt).I64(0)
	asm.Op(OpDiv)
	asm.Op(OpHalt)

	prog := &Program{Code: asm.Code()}
	if _, err := New(prog).Run(); !errors.Is(err, ErrDivideByZero) {
		t.Fatalf("expected ErrDivideByZero, got %v", err)
	}
}

// A VM stays usable after a runtime error: the error is retained for
// inspection and a following clean run clears it.
func TestRun_VMStaysUsableAfterError(t *testing.T) {
	var bad Assembler
	bad.Op(OpPushInt).I64(1)
	bad.Op(OpPushInt).I64(0)
	bad.Op(OpDiv)
	bad.Op(OpHalt)

	m := New(&Program{Code: bad.Code()})
	if _, err := m.Run(); !errors.Is(err, ErrDivideByZero) {
		t.Fatalf("expected ErrDivideByZero, got %v", err)
	}
	if !errors.Is(m.LastError(), ErrDivideByZero) {
		t.Fatalf("expected LastError to retain the halting error, got %v", m.LastError())
	}

	var good Assembler
	good.Op(OpPushInt).I64(7)
	good.Op(OpPop)
	good.Op(OpHalt)
	m.Program = &Program{Code: good.Code()}
	if _, err := m.Run(); err != nil {
		t.Fatalf("expected a clean run after the error, got %v", err)
	}
	if m.LastError() != nil {
		t.Fatalf("expected LastError cleared by a clean run, got %v", m.LastError())
	}
}

func TestRun_ModuloByZeroIsRejected(t *testing.T) {
	var asm Assembler
	asm.Op(OpPushInt).I64(10)
	asm.Op(OpPushInt).I64(0)
	asm.Op(OpMod)
	asm.Op(OpHalt)

	prog := &Program{Code: asm.Code()}
	if _, err := New(prog).Run(); !errors.Is(err, ErrModuloByZero) {
		t.Fatalf("expected ErrModuloByZero, got %v", err)
	}
}

func TestRun_StackOverflowStopsExecution(t *testing.T) {
	var asm Assembler
	for i := 0; i < MaxStackDepth+1; i++ {
		asm.Op(OpPushInt).I64(0)
	}
	asm.Op(OpHalt)

	prog := &Program{Code: asm.Code()}
	if _, err := New(prog).Run(); !errors.Is(err, ErrStackOverflow) {
		t.Fatalf("expected ErrStackOverflow, got %v", err)
	}
}

func TestSetStateValue_RejectsNewIDBeyondLimit(t *testing.T) {
	m := New(&Program{})
	for i := 0; i < MaxStateEntries; i++ {
		if err := m.SetStateValue(uint32(i), kryval.Null); err != nil {
			t.Fatalf("unexpected error at id %d: %v", i, err)
		}
	}
	if err := m.SetStateValue(uint32(MaxStateEntries), kryval.Null); !errors.Is(err, ErrStateFull) {
		t.Fatalf("expected ErrStateFull for a new id beyond the limit, got %v", err)
	}
	// Updating one of the existing ids still succeeds at capacity.
	if err := m.SetStateValue(0, kryval.Int(7)); err != nil {
		t.Fatalf("expected update of an existing id to succeed at capacity, got %v", err)
	}
}

func TestRun_GetStateUnregisteredYieldsZero(t *testing.T) {
	var asm Assembler
	asm.Op(OpGetState).U32(999)
	asm.Op(OpHalt)

	stack, err := New(&Program{Code: asm.Code()}).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(stack) != 1 || stack[0].Int() != 0 {
		t.Fatalf("expected INT 0 for an unregistered state id, got %+v", stack)
	}
}

func TestRun_GetLocalUnsetYieldsZero(t *testing.T) {
	var asm Assembler
	asm.Op(OpGetLocal).U32(5)
	asm.Op(OpHalt)

	stack, err := New(&Program{Code: asm.Code()}).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(stack) != 1 || stack[0].Int() != 0 {
		t.Fatalf("expected INT 0 for an unset local, got %+v", stack)
	}
}

func TestRun_SetLocalAutoExtends(t *testing.T) {
	var asm Assembler
	asm.Op(OpPushInt).I64(99)
	asm.Op(OpSetLocal).U32(31) // last valid id (MaxLocals-1)
	asm.Op(OpGetLocal).U32(31)
	asm.Op(OpHalt)

	stack, err := New(&Program{Code: asm.Code()}).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(stack) != 1 || stack[0].Int() != 99 {
		t.Fatalf("expected the auto-extended local to read back 99, got %+v", stack)
	}
}

func TestRun_SetLocalBeyondLimitIsRejected(t *testing.T) {
	var asm Assembler
	asm.Op(OpPushInt).I64(1)
	asm.Op(OpSetLocal).U32(MaxLocals)
	asm.Op(OpHalt)

	if _, err := New(&Program{Code: asm.Code()}).Run(); !errors.Is(err, ErrLocalIndexOOB) {
		t.Fatalf("expected ErrLocalIndexOOB, got %v", err)
	}
}

func TestRun_CallHostInvokesRegisteredFunction(t *testing.T) {
	m := New(&Program{})
	if err := m.RegisterHostFunction(1, "shout", func(vm *VM) error {
		a, err := vm.Pop()
		if err != nil {
			return err
		}
		return vm.Push(kryval.String(a.String() + "!"))
	}); err != nil {
		t.Fatalf("RegisterHostFunction: %v", err)
	}

	var asm Assembler
	asm.Op(OpPushString).Str("hi")
	asm.Op(OpCallHost).U32(1)
	asm.Op(OpHalt)

	m.Program = &Program{Code: asm.Code()}
	stack, err := m.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(stack) != 1 || stack[0].Str() != "hi!" {
		t.Fatalf("expected host call result \"hi!\", got %+v", stack)
	}
}

func TestRun_CallHostUnknownIDWarnsAndContinues(t *testing.T) {
	var asm Assembler
	asm.Op(OpPushInt).I64(1)
	asm.Op(OpCallHost).U32(999) // never registered
	asm.Op(OpPushInt).I64(2)
	asm.Op(OpHalt)

	stack, err := New(&Program{Code: asm.Code()}).Run()
	if err != nil {
		t.Fatalf("Run: expected graceful degradation, got error %v", err)
	}
	if len(stack) != 2 || stack[0].Int() != 1 || stack[1].Int() != 2 {
		t.Fatalf("expected the run to continue past the unknown host call, got %+v", stack)
	}
}

func TestLoadFunction_CallByIDExecutesStream(t *testing.T) {
	m := New(&Program{})
	err := m.LoadFunction(7, []Instruction{
		{Op: OpGetState, ID: 100},
		{Op: OpPushInt, Int: 1},
		{Op: OpAdd},
		{Op: OpSetState, ID: 100},
		{Op: OpHalt},
	})
	if err != nil {
		t.Fatalf("LoadFunction: %v", err)
	}

	stack, err := m.CallFunction(7)
	if err != nil {
		t.Fatalf("CallFunction: %v", err)
	}
	if len(stack) != 0 {
		t.Fatalf("expected empty stack on halt, got %+v", stack)
	}
	if got := m.State(100); got.Int() != 1 {
		t.Fatalf("expected state 100 == 1 after the loaded increment, got %d", got.Int())
	}

	if _, err := m.CallFunction(8); !errors.Is(err, ErrFunctionUnknown) {
		t.Fatalf("expected ErrFunctionUnknown for an unloaded id, got %v", err)
	}
}

func TestLoadFunction_EncodesInlineImmediates(t *testing.T) {
	m := New(&Program{})
	if err := m.LoadFunction(1, []Instruction{
		{Op: OpPushInt, Int: 1},
		{Op: OpHalt},
	}); err != nil {
		t.Fatalf("LoadFunction: %v", err)
	}
	want := []byte{0x01, 1, 0, 0, 0, 0, 0, 0, 0, 0xFF}
	got := m.functions[1].Code
	if len(got) != len(want) {
		t.Fatalf("expected %d encoded bytes, got %d (% x)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: expected 0x%02x, got 0x%02x", i, want[i], got[i])
		}
	}
}

func TestRun_ConcatJoinsStringRepresentations(t *testing.T) {
	var asm Assembler
	asm.Op(OpPushString).Str("count: ")
	asm.Op(OpPushInt).I64(7)
	asm.Op(OpConcat)
	asm.Op(OpHalt)

	prog := &Program{Code: asm.Code()}
	stack, err := New(prog).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stack[0].Str() != "count: 7" {
		t.Fatalf("expected \"count: 7\", got %q", stack[0].Str())
	}
}
