package vm

// Opcode is the 1-byte instruction tag of the bytecode encoding.
type Opcode byte

const (
	OpPushInt    Opcode = 0x01 // 8-byte int64 immediate
	OpPushFloat  Opcode = 0x02 // 8-byte double immediate
	OpPushString Opcode = 0x03 // 4-byte length, then that many UTF-8 bytes
	OpPushBool   Opcode = 0x04 // 1-byte immediate (0/non-zero)
	OpPop        Opcode = 0x05
	OpDup        Opcode = 0x06

	OpAdd Opcode = 0x10
	OpSub Opcode = 0x11
	OpMul Opcode = 0x12
	OpDiv Opcode = 0x13
	OpMod Opcode = 0x14
	OpNeg Opcode = 0x15

	OpEq Opcode = 0x20
	OpNe Opcode = 0x21
	OpLt Opcode = 0x22
	OpGt Opcode = 0x23
	OpLe Opcode = 0x24
	OpGe Opcode = 0x25

	OpAnd Opcode = 0x30
	OpOr  Opcode = 0x31
	OpNot Opcode = 0x32

	OpConcat Opcode = 0x40

	OpGetState Opcode = 0x50 // 4-byte id; unregistered id yields INT 0
	OpSetState Opcode = 0x51 // 4-byte id; registers the id if the table has room
	OpGetLocal Opcode = 0x52 // 4-byte id; unset local yields INT 0
	OpSetLocal Opcode = 0x53 // 4-byte id; auto-extends the local table up to the limit

	OpJump        Opcode = 0x60 // 4-byte signed offset, absolute pc target (see doc comment on Run)
	OpJumpIfFalse Opcode = 0x61 // 4-byte signed offset, absolute pc target
	OpCall        Opcode = 0x62 // reserved
	OpReturn      Opcode = 0x63 // reserved
	OpCallHost    Opcode = 0x70 // 4-byte function id, no arity immediate
	OpGetProp     Opcode = 0x71 // reserved
	OpSetProp     Opcode = 0x72 // reserved

	OpHalt Opcode = 0xFF
)

// Limits are the fixed per-VM resource caps.
const (
	MaxStackDepth   = 256
	MaxStateEntries = 64
	MaxLocals       = 32
	MaxHostFuncs    = 128
)
