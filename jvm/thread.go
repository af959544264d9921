package jvm

// Thread is one logical JVM thread: a status, a call stack of StackFrames,
// and the bookkeeping needed to suspend/resume it cooperatively (§4.4).
type Thread struct {
	ref    int
	status ThreadStatus
	stack  []StackFrame

	monitor     Monitor
	interrupted bool

	pool      *ThreadPool
	bootstrap ClassLoader
}

// Ref is this thread's stable identity within its pool, used as the key
// into ThreadPool.parkCounts.
func (t *Thread) Ref() int { return t.ref }

func (t *Thread) GetStatus() ThreadStatus { return t.status }

func (t *Thread) GetMonitorBlock() Monitor { return t.monitor }

func (t *Thread) IsInterrupted() bool { return t.interrupted }

func (t *Thread) SetInterrupted(b bool) { t.interrupted = b }

func (t *Thread) topFrame() StackFrame {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

func (t *Thread) pushFrame(f StackFrame) {
	t.stack = append(t.stack, f)
}

func (t *Thread) popFrame() StackFrame {
	if len(t.stack) == 0 {
		return nil
	}
	f := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return f
}

func frameMethod(f StackFrame) Method {
	switch v := f.(type) {
	case *BytecodeFrame:
		return v.Method
	case *NativeFrame:
		return v.Method
	default:
		return nil
	}
}

// CurrentMethod returns the method backing the top frame, or nil if the
// stack is empty or topped by an internal frame; frames below the top are
// not searched.
func (t *Thread) CurrentMethod() Method {
	return frameMethod(t.topFrame())
}

// GetStackTrace captures the language-visible frames, innermost first.
func (t *Thread) GetStackTrace() []StackTraceEntry {
	var trace []StackTraceEntry
	for i := len(t.stack) - 1; i >= 0; i-- {
		if e := t.stack[i].StackTraceFrame(); e != nil {
			trace = append(trace, *e)
		}
	}
	return trace
}

// SetStatus drives the state machine of §4.4: it validates the transition,
// handles the RUNNING→RUNNABLE collapse and the TERMINATED resurrection
// path, stores or clears the monitor, and fires the post-transition side
// effect.
func (t *Thread) SetStatus(target ThreadStatus, monitor Monitor) {
	current := t.status

	if current == StatusRunning && target == StatusRunnable {
		return
	}

	if current == StatusTerminated && target != StatusNew {
		// Resurrection always passes through the NEW intermediate.
		t.commitStatus(current, StatusNew, nil)
		current = StatusNew
	}

	if !legalTransitions[current][target] {
		panic(hostFault(t, "illegal thread status transition %s -> %s", current, target))
	}
	t.commitStatus(current, target, monitor)
}

// commitStatus performs a single validated transition's mechanics and
// post-transition side effect, without re-checking legality (the
// resurrection intermediate hop in SetStatus is always legal by
// construction).
func (t *Thread) commitStatus(old ThreadStatus, target ThreadStatus, monitor Monitor) {
	if target.requiresMonitor() {
		if monitor == nil {
			panic(hostFault(t, "entering %s requires a non-nil monitor", target))
		}
		t.monitor = monitor
	} else {
		t.monitor = nil
	}

	t.status = target
	if target.IsSuspended() {
		log.Debugf("thread %d: %s -> %s on %T", t.ref, old, target, monitor)
	} else {
		log.Debugf("thread %d: %s -> %s", t.ref, old, target)
	}

	switch {
	case target == StatusRunnable:
		if t.pool != nil {
			t.pool.threadRunnable(t)
		}
	case target == StatusRunning:
		t.run()
	case target == StatusTerminated:
		if t.pool != nil {
			t.pool.threadTerminated(t)
		}
	case target.IsSuspended():
		if t.pool != nil {
			t.pool.threadSuspended(t)
		}
	}
}

// run is the interpreter dispatch loop (§4.4). It is only ever invoked as
// the RUNNING post-transition side effect and must not be called directly.
func (t *Thread) run() {
	for t.status == StatusRunning && len(t.stack) > 0 {
		t.topFrame().Run(t)
	}
	if len(t.stack) == 0 && t.status != StatusTerminated {
		t.SetStatus(StatusTerminated, nil)
	}
}

// RunMethod pushes a new activation of method (optionally behind an
// internal frame wrapping cb) and schedules the thread to run it.
func (t *Thread) RunMethod(method Method, args []Value, cb func(e Value, rv Value)) {
	switch t.status {
	case StatusNew, StatusRunning, StatusRunnable, StatusAsyncWaiting, StatusTerminated:
	default:
		panic(hostFault(t, "runMethod called in status %s", t.status))
	}

	if cb != nil {
		t.pushFrame(NewInternalFrame(cb))
	}
	if method.IsAbstract() {
		panic(hostFault(t, "runMethod invoked on abstract method %s", method.FullSignature()))
	}
	if method.IsNative() {
		t.pushFrame(NewNativeFrame(method, args))
	} else {
		f := NewBytecodeFrame(method)
		copy(f.Locals, args)
		t.pushFrame(f)
	}
	t.SetStatus(StatusRunnable, nil)
}

// AsyncReturn pops the top frame, sanity-checks its return value if it was
// language-visible, resumes the frame beneath it, and reschedules the
// thread (§4.4, §4.6).
func (t *Thread) AsyncReturn(rv1 *Value, rv2 *Value) {
	switch t.status {
	case StatusRunning, StatusRunnable, StatusAsyncWaiting:
	default:
		panic(hostFault(t, "asyncReturn called in status %s", t.status))
	}

	popped := t.popFrame()
	if method := frameMethod(popped); method != nil {
		if t.pool == nil || t.pool.Config.EnableSanityChecks {
			if err := checkReturnValue(t, method, rv1, rv2); err != nil {
				panic(err)
			}
		}
	}

	if top := t.topFrame(); top != nil {
		top.ScheduleResume(t, rv1, rv2)
	}
	t.SetStatus(StatusRunnable, nil)
}

// ThrowException unwinds the stack looking for a frame willing to claim e,
// per §4.4.
func (t *Thread) ThrowException(e Value) {
	switch t.status {
	case StatusRunning, StatusRunnable, StatusAsyncWaiting:
	default:
		panic(hostFault(t, "throwException called in status %s", t.status))
	}
	if len(t.stack) == 0 {
		panic(hostFault(t, "throwException called with an empty stack"))
	}

	if top := t.topFrame(); top.FrameType() == FrameInternal {
		t.popFrame()
	}

	t.SetStatus(StatusRunnable, nil)

	for len(t.stack) > 0 {
		top := t.stack[len(t.stack)-1]
		if top.ScheduleException(t, e) {
			return
		}
		t.stack = t.stack[:len(t.stack)-1]
	}

	t.HandleUncaughtException(e)
}

// ThrowNewException constructs an instance of className via its
// (Ljava/lang/String;)V constructor and throws it, initializing the class
// first if necessary.
func (t *Thread) ThrowNewException(className string, msg string) {
	if cls := t.bootstrap.GetInitializedClass(className); cls != nil {
		t.constructAndThrow(cls, msg)
		return
	}

	t.SetStatus(StatusAsyncWaiting, nil)
	t.bootstrap.InitializeClass(t, className, func(err error) {
		if err != nil {
			panic(hostFault(t, "failed to initialize exception class %s: %v", className, err))
		}
		cls := t.bootstrap.GetInitializedClass(className)
		t.constructAndThrow(cls, msg)
	}, true)
}

func (t *Thread) constructAndThrow(cls Class, msg string) {
	ctor := cls.MethodLookup(t, "<init>(Ljava/lang/String;)V")
	if ctor == nil {
		panic(hostFault(t, "class %s has no <init>(Ljava/lang/String;)V", cls.TypeName()))
	}
	instance := cls.NewInstance()
	t.RunMethod(ctor, []Value{instance, msg}, func(e Value, rv Value) {
		if e != nil {
			t.ThrowException(e)
			return
		}
		t.ThrowException(instance)
	})
}

// HandleUncaughtException dispatches e to java.lang.Thread's uncaught
// exception handler.
func (t *Thread) HandleUncaughtException(e Value) {
	threadClass := t.bootstrap.GetInitializedClass("java/lang/Thread")
	if threadClass == nil {
		panic(hostFault(t, "java/lang/Thread is not initialized; cannot dispatch uncaught exception"))
	}
	method := threadClass.MethodLookup(t, "dispatchUncaughtException(Ljava/lang/Throwable;)V")
	if method == nil {
		panic(hostFault(t, "java/lang/Thread has no dispatchUncaughtException(Ljava/lang/Throwable;)V"))
	}
	t.RunMethod(method, []Value{t, e}, nil)
}
