package runtime

import "github.com/chazu/threadvm/jvm"

// The opcodes below are a small, hand-built instruction set — not a real
// bytecode format — sufficient to script demo methods for cmd/jvmthread
// and for tests that want a BytecodeFrame driven by more than one
// instruction. Every one of them advances pc by exactly one slot; IncPc is
// shared rather than reimplemented per opcode.

type baseOp struct{ name string }

func (baseOp) IncPc(f *jvm.BytecodeFrame) { f.PC++ }
func (o baseOp) Name() string             { return o.name }

// PushConst pushes a fixed value onto the operand stack.
type PushConst struct {
	baseOp
	Value jvm.Value
}

func NewPushConst(v jvm.Value) *PushConst {
	return &PushConst{baseOp: baseOp{"push_const"}, Value: v}
}

func (o *PushConst) Execute(t *jvm.Thread, f *jvm.BytecodeFrame) {
	f.Push(o.Value)
	o.IncPc(f)
}

// LoadLocal pushes locals[Index].
type LoadLocal struct {
	baseOp
	Index int
}

func NewLoadLocal(i int) *LoadLocal { return &LoadLocal{baseOp{"load_local"}, i} }

func (o *LoadLocal) Execute(t *jvm.Thread, f *jvm.BytecodeFrame) {
	f.Push(f.Locals[o.Index])
	o.IncPc(f)
}

// InvokeMethod calls target with the top argCount operand values as
// arguments and yields to the thread loop; the nested return resumes this
// frame automatically via BytecodeFrame.ScheduleResume.
type InvokeMethod struct {
	baseOp
	Target   jvm.Method
	ArgCount int
}

func NewInvokeMethod(target jvm.Method, argCount int) *InvokeMethod {
	return &InvokeMethod{baseOp{"invoke"}, target, argCount}
}

func (o *InvokeMethod) Execute(t *jvm.Thread, f *jvm.BytecodeFrame) {
	n := len(f.Operands)
	args := append([]jvm.Value(nil), f.Operands[n-o.ArgCount:]...)
	f.Operands = f.Operands[:n-o.ArgCount]
	f.ReturnToThreadLoop = true
	t.RunMethod(o.Target, args, nil)
}

// releaseMethodLockIfHeld implements the implicit monitorexit that a real
// return instruction performs for a synchronized method, mirroring the
// release BytecodeFrame.ScheduleException already does on its no-handler
// fallthrough.
func releaseMethodLockIfHeld(t *jvm.Thread, f *jvm.BytecodeFrame) {
	if f.Method.IsSynchronized() && f.LockedMethodLock {
		f.Method.MethodLock(t, f).Exit(t)
		f.LockedMethodLock = false
	}
}

// Return pops nothing and completes the frame with no return value (V).
type Return struct{ baseOp }

func NewReturn() *Return { return &Return{baseOp{"return"}} }

func (o *Return) Execute(t *jvm.Thread, f *jvm.BytecodeFrame) {
	releaseMethodLockIfHeld(t, f)
	f.ReturnToThreadLoop = true
	t.AsyncReturn(nil, nil)
}

// ReturnValue pops the top operand and completes the frame with it as a
// return value, adapted from the boxed operand-stack Value to the native Go
// representation jvm.checkReturnValue expects for the method's declared
// descriptor (§4.6) — the operand stack is uniformly Value-boxed, but the
// sanity check operates on raw primitives.
type ReturnValue struct{ baseOp }

func NewReturnValue() *ReturnValue { return &ReturnValue{baseOp{"return_value"}} }

func (o *ReturnValue) Execute(t *jvm.Thread, f *jvm.BytecodeFrame) {
	n := len(f.Operands)
	popped := f.Operands[n-1]
	f.Operands = f.Operands[:n-1]
	releaseMethodLockIfHeld(t, f)
	f.ReturnToThreadLoop = true

	rv1, twoSlot := adaptReturnValue(f.Method.ReturnType(), popped)
	if twoSlot {
		var rv2 jvm.Value
		t.AsyncReturn(&rv1, &rv2)
		return
	}
	t.AsyncReturn(&rv1, nil)
}

// adaptReturnValue unboxes a runtime Value into the native Go type the
// method's return descriptor calls for: a NaN-boxed uint64 satisfies none
// of jvm.checkReturnValue's type assertions on its own. twoSlot reports
// whether descriptor uses the J/D two-slot convention, where rv2 must be a
// non-nil pointer to a null Value (Open Question 1's "present but null"
// signal for "two-slot form in use").
func adaptReturnValue(descriptor string, v jvm.Value) (rv1 jvm.Value, twoSlot bool) {
	rv, ok := v.(Value)
	if !ok {
		return v, false
	}
	switch descriptor {
	case "J":
		return rv.Long(), true
	case "D":
		return rv.Double(), true
	case "F":
		return float32(rv.Double()), false
	case "I", "B", "C", "S":
		return rv.Int(), false
	case "Z":
		if rv.Bool() {
			return int32(1), false
		}
		return int32(0), false
	default:
		return rv, false
	}
}

// AThrow pops the top operand and throws it.
type AThrow struct{ baseOp }

func NewAThrow() *AThrow { return &AThrow{baseOp{"athrow"}} }

func (o *AThrow) Execute(t *jvm.Thread, f *jvm.BytecodeFrame) {
	n := len(f.Operands)
	e := f.Operands[n-1]
	f.Operands = f.Operands[:n-1]
	f.ReturnToThreadLoop = true
	t.ThrowException(e)
}
