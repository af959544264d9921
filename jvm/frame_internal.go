package jvm

// InternalFrame is a continuation boundary (§4.3): it lets host code invoke
// a JVM method and be notified on completion, without itself being
// language-visible.
type InternalFrame struct {
	Callback func(e Value, rv Value)

	pending     bool
	isException bool
	value       Value
}

func NewInternalFrame(cb func(e Value, rv Value)) *InternalFrame {
	return &InternalFrame{Callback: cb}
}

func (f *InternalFrame) FrameType() FrameType { return FrameInternal }

// StackTraceFrame returns nil: internal frames are not language-visible.
func (f *InternalFrame) StackTraceFrame() *StackTraceEntry { return nil }

// Run pops itself off the stack, transitions the thread to ASYNC_WAITING,
// and invokes the stashed callback with whatever ScheduleResume or
// ScheduleException last recorded.
func (f *InternalFrame) Run(t *Thread) {
	t.popFrame()
	t.SetStatus(StatusAsyncWaiting, nil)
	if f.isException {
		f.Callback(f.value, nil)
	} else {
		f.Callback(nil, f.value)
	}
}

func (f *InternalFrame) ScheduleResume(t *Thread, rv1 *Value, rv2 *Value) {
	f.isException = false
	if rv1 != nil {
		f.value = *rv1
	} else {
		f.value = nil
	}
}

// ScheduleException always claims the exception: an internal frame hands it
// to the host callback rather than searching for a bytecode handler.
func (f *InternalFrame) ScheduleException(t *Thread, e Value) bool {
	f.isException = true
	f.value = e
	return true
}
