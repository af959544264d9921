package jvm

// NativeFrame is a single-use activation of a native method (§4.2): its Run
// executes the native function exactly once per activation.
type NativeFrame struct {
	Method Method
	Args   []Value
	ran    bool
}

func NewNativeFrame(method Method, args []Value) *NativeFrame {
	return &NativeFrame{Method: method, Args: args}
}

func (f *NativeFrame) FrameType() FrameType { return FrameNative }

func (f *NativeFrame) StackTraceFrame() *StackTraceEntry {
	return &StackTraceEntry{Method: f.Method}
}

// Run converts args, invokes the native function synchronously, and
// (guarded against the native having performed a nested call or gone
// ASYNC_WAITING) hands the raw return value to Thread.AsyncReturn with the
// return-type-specific slot adaptation of §4.2.
func (f *NativeFrame) Run(t *Thread) {
	if f.ran {
		panic(hostFault(t, "NativeFrame.Run invoked more than once for a single activation"))
	}
	f.ran = true

	converted := f.Method.ConvertArgs(t, f.Args)
	rv := f.Method.InvokeNative(t, converted)

	if t.GetStatus() != StatusRunning {
		return
	}
	if t.topFrame() != f {
		return
	}

	switch f.Method.ReturnType() {
	case "J", "D":
		t.AsyncReturn(&rv, ptr(Value(nil)))
	case "Z":
		if b, ok := rv.(bool); ok && b {
			t.AsyncReturn(ptr(Value(int32(1))), nil)
		} else {
			t.AsyncReturn(ptr(Value(int32(0))), nil)
		}
	case "V":
		t.AsyncReturn(nil, nil)
	default:
		t.AsyncReturn(&rv, nil)
	}
}

// ScheduleResume is a no-op: a native frame left on top after a nested call
// is stepped off by the nested return via AsyncReturn, never resumed
// directly.
func (f *NativeFrame) ScheduleResume(t *Thread, rv1 *Value, rv2 *Value) {}

// ScheduleException never claims a bytecode-level exception; a throwing
// native must call Thread.ThrowException directly.
func (f *NativeFrame) ScheduleException(t *Thread, e Value) bool { return false }

func ptr(v Value) *Value { return &v }
