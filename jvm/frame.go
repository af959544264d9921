package jvm

// StackFrame is one activation record: a discriminated variant that drives
// either a bytecode dispatch loop, a native-function invocation, or a
// host-code continuation (§3, §4.1-4.3).
type StackFrame interface {
	// Run is invoked by the thread's dispatch loop whenever this frame is
	// on top of the stack and the thread's status is RUNNING.
	Run(t *Thread)
	// ScheduleResume is called when a nested invocation below this frame
	// has returned; rv2 is non-nil only for two-slot (J/D) returns.
	ScheduleResume(t *Thread, rv1 *Value, rv2 *Value)
	// ScheduleException offers e to this frame. Returns true if the frame
	// has taken responsibility for it (handled it, or is asynchronously
	// resolving a handler), false if it should propagate further down.
	ScheduleException(t *Thread, e Value) bool
	// FrameType identifies which variant this is, for diagnostics and for
	// Thread.asyncReturn's "was this a non-internal frame" check.
	FrameType() FrameType
	// StackTraceFrame returns this frame's contribution to a captured
	// stack trace, or nil if this frame is not language-visible.
	StackTraceFrame() *StackTraceEntry
}

// FrameType discriminates the StackFrame variants.
type FrameType int

const (
	FrameBytecode FrameType = iota
	FrameNative
	FrameInternal
)

// BytecodeFrame is one activation of a bytecode method (§4.1).
type BytecodeFrame struct {
	Method   Method
	PC       uint32
	Locals   []Value
	Operands []Value

	// ReturnToThreadLoop is cleared at entry to Run and set by an opcode
	// when it performs an action that must yield control back to the
	// thread's dispatch loop.
	ReturnToThreadLoop bool

	// LockedMethodLock is true once this frame has successfully acquired
	// its method's monitor; re-entry after a nested call returns must not
	// re-acquire.
	LockedMethodLock bool
}

// NewBytecodeFrame creates a frame for method with max_locals-sized locals,
// all unset (nil).
func NewBytecodeFrame(method Method) *BytecodeFrame {
	return &BytecodeFrame{
		Method: method,
		Locals: make([]Value, method.MaxLocals()),
	}
}

func (f *BytecodeFrame) FrameType() FrameType { return FrameBytecode }

func (f *BytecodeFrame) StackTraceFrame() *StackTraceEntry {
	return &StackTraceEntry{
		Method:         f.Method,
		PC:             f.PC,
		StackSnapshot:  append([]Value(nil), f.Operands...),
		LocalsSnapshot: append([]Value(nil), f.Locals...),
	}
}

// Push appends a value to the operand stack.
func (f *BytecodeFrame) Push(v Value) {
	f.Operands = append(f.Operands, v)
}

// Run executes entry actions (possible monitor acquisition) and then loops
// opcodes until one yields, per §4.1.
func (f *BytecodeFrame) Run(t *Thread) {
	if f.Method.IsSynchronized() && !f.LockedMethodLock {
		mon := f.Method.MethodLock(t, f)
		// onAcquired only needs to mark the lock as held: the monitor
		// implementation owns transitioning t back to RUNNABLE once it
		// grants entry, the same way it owns transitioning t to BLOCKED
		// when Enter cannot grant synchronously.
		acquired := mon.Enter(t, func() {
			f.LockedMethodLock = true
		})
		if !acquired {
			// Enter transitioned t to BLOCKED itself; Run must return
			// without advancing pc or executing any opcode.
			return
		}
		f.LockedMethodLock = true
	}

	f.ReturnToThreadLoop = false
	code := f.Method.Code()
	for !f.ReturnToThreadLoop {
		op := code[f.PC]
		op.Execute(t, f)
	}
}

// ScheduleResume advances pc past the invoke instruction and pushes the
// nested call's return value(s), per §4.1.
func (f *BytecodeFrame) ScheduleResume(t *Thread, rv1 *Value, rv2 *Value) {
	code := f.Method.Code()
	code[f.PC].IncPc(f)
	if rv1 != nil {
		f.Push(*rv1)
	}
	if rv2 != nil {
		f.Push(*rv2)
	}
}

// ScheduleException searches the method's exception table for a handler,
// per §4.1's tie-break (declared order, first match wins) and asynchronous
// catch-type resolution.
func (f *BytecodeFrame) ScheduleException(t *Thread, e Value) bool {
	handlers := f.Method.ExceptionHandlers()
	loader := f.Method.Class().Loader()

	// Handlers are tried in declared order. The moment one in range is
	// unresolved, synchronous matching must stop right there — a later,
	// already-resolved handler must not be allowed to jump the queue in
	// front of an earlier one whose resolution hasn't even been asked for
	// yet. From that point on, every remaining in-range handler only
	// contributes its catch_type to the unresolved set if it, too, needs
	// resolution.
	var unresolved []string
	for _, h := range handlers {
		if f.PC < h.StartPC() || f.PC >= h.EndPC() {
			continue
		}
		if len(unresolved) > 0 {
			if h.CatchType() != "<any>" && loader.GetResolvedClass(h.CatchType()) == nil {
				unresolved = append(unresolved, h.CatchType())
			}
			continue
		}
		if h.CatchType() == "<any>" {
			f.selectHandler(h, e)
			return true
		}
		catchClass := loader.GetResolvedClass(h.CatchType())
		if catchClass == nil {
			unresolved = append(unresolved, h.CatchType())
			continue
		}
		if e.(Throwable).ExceptionClass().IsCastable(catchClass) {
			f.selectHandler(h, e)
			return true
		}
	}

	if len(unresolved) > 0 {
		t.SetStatus(StatusAsyncWaiting, nil)
		loader.ResolveClasses(t, unresolved, func(err error) {
			if err != nil {
				// Decision (SPEC_FULL, Open Question 2): a resolver that
				// itself fails does not loop; surface it as a fresh
				// exception rather than retrying forever.
				t.ThrowNewException("java/lang/ClassNotFoundError", err.Error())
				return
			}
			t.ThrowException(e)
		})
		return true
	}

	if f.Method.IsSynchronized() && f.LockedMethodLock {
		f.Method.MethodLock(t, f).Exit(t)
		f.LockedMethodLock = false
	}
	return false
}

func (f *BytecodeFrame) selectHandler(h ExceptionHandler, e Value) {
	f.Operands = f.Operands[:0]
	f.Push(e)
	f.PC = h.HandlerPC()
}
