package jvm

import "testing"

func simpleClass(loader ClassLoader) *fakeClass {
	return &fakeClass{name: "Test", loader: loader, supers: map[string]bool{}, methods: map[string]Method{}}
}

func returnOp() Opcode {
	return &fakeOpcode{name: "return", do: func(t *Thread, f *BytecodeFrame) {
		f.ReturnToThreadLoop = true
		t.AsyncReturn(nil, nil)
	}}
}

func TestRunMethodToCompletionTerminates(t *testing.T) {
	pool := newTestPool()
	cls := simpleClass(pool.bootstrap)
	method := &fakeMethod{name: "run()V", maxLocals: 0, returnType: "V", class: cls, code: []Opcode{returnOp()}}

	th := pool.newThread(cls)
	done := false
	th.RunMethod(method, nil, func(e Value, rv Value) { done = true })
	pool.Tick()

	if !done {
		t.Fatalf("callback never fired")
	}
	if th.GetStatus() != StatusTerminated {
		t.Fatalf("expected TERMINATED, got %s", th.GetStatus())
	}
}

func TestSynchronizedUncontestedLock(t *testing.T) {
	pool := newTestPool()
	cls := simpleClass(pool.bootstrap)
	mon := &fakeMonitor{}
	method := &fakeMethod{
		name: "sync()V", maxLocals: 0, returnType: "V", class: cls,
		synchronized: true, lock: mon,
		code: []Opcode{returnOp()},
	}

	th := pool.newThread(cls)
	th.RunMethod(method, nil, nil)
	pool.Tick()

	if th.GetStatus() != StatusTerminated {
		t.Fatalf("expected TERMINATED, got %s", th.GetStatus())
	}
	if !mon.held {
		t.Fatalf("expected the monitor to have been acquired synchronously")
	}
}

func throwOp(exc func(t *Thread) Value) Opcode {
	return &fakeOpcode{name: "throw", do: func(t *Thread, f *BytecodeFrame) {
		f.ReturnToThreadLoop = true
		t.ThrowException(exc(t))
	}}
}

func TestExceptionCaughtWithResolvedHandler(t *testing.T) {
	pool := newTestPool()
	loader := pool.bootstrap.(*fakeLoader)
	excClass := &fakeClass{name: "java/lang/Exception", loader: loader, supers: map[string]bool{}}
	loader.resolved["java/lang/Exception"] = excClass

	cls := simpleClass(loader)
	exc := &fakeObject{class: excClass}

	handled := false
	handlerOp := &fakeOpcode{name: "handler", do: func(t *Thread, f *BytecodeFrame) {
		handled = true
		f.ReturnToThreadLoop = true
		t.AsyncReturn(nil, nil)
	}}

	method := &fakeMethod{
		name: "m()V", maxLocals: 0, returnType: "V", class: cls,
		code:     []Opcode{throwOp(func(*Thread) Value { return exc }), handlerOp},
		handlers: []ExceptionHandler{&fakeHandler{start: 0, end: 1, handler: 1, catchType: "java/lang/Exception"}},
	}

	th := pool.newThread(cls)
	th.RunMethod(method, nil, nil)
	pool.Tick()

	if !handled {
		t.Fatalf("handler did not run")
	}
	if th.GetStatus() != StatusTerminated {
		t.Fatalf("expected TERMINATED, got %s", th.GetStatus())
	}
}

func TestExceptionUnresolvedHandlerResolvesAsync(t *testing.T) {
	pool := newTestPool()
	loader := pool.bootstrap.(*fakeLoader)
	excClass := &fakeClass{name: "java/lang/Exception", loader: loader, supers: map[string]bool{}}
	cls := simpleClass(loader)
	exc := &fakeObject{class: excClass}

	handled := false
	handlerOp := &fakeOpcode{name: "handler", do: func(t *Thread, f *BytecodeFrame) {
		handled = true
		f.ReturnToThreadLoop = true
		t.AsyncReturn(nil, nil)
	}}

	method := &fakeMethod{
		name: "m()V", maxLocals: 0, returnType: "V", class: cls,
		code:     []Opcode{throwOp(func(*Thread) Value { return exc }), handlerOp},
		handlers: []ExceptionHandler{&fakeHandler{start: 0, end: 1, handler: 1, catchType: "java/lang/Exception"}},
	}

	loader.toResolve["java/lang/Exception"] = excClass

	th := pool.newThread(cls)
	th.RunMethod(method, nil, nil)
	pool.Tick()

	if !handled {
		t.Fatalf("handler did not run after async resolution")
	}
	if len(loader.resolveCalls) != 1 {
		t.Fatalf("expected exactly one resolution request, got %d", len(loader.resolveCalls))
	}
}

func TestExceptionUnresolvedHandlerBlocksLaterResolvedHandler(t *testing.T) {
	pool := newTestPool()
	loader := pool.bootstrap.(*fakeLoader)

	// The thrown class is castable to java/lang/Exception but not to
	// demo/RareException; demo/RareException does resolve (to an unrelated
	// class) once asked, but only ever gets asked if the declared-order
	// scan correctly stops at it instead of skipping ahead to the
	// already-resolved java/lang/Exception handler declared after it.
	excClass := &fakeClass{name: "java/lang/Exception", loader: loader, supers: map[string]bool{}}
	loader.resolved["java/lang/Exception"] = excClass
	rareClass := &fakeClass{name: "demo/RareException", loader: loader, supers: map[string]bool{}}
	loader.toResolve["demo/RareException"] = rareClass

	cls := simpleClass(loader)
	thrownClass := &fakeClass{name: "demo/Thrown", loader: loader, supers: map[string]bool{"java/lang/Exception": true}}
	exc := &fakeObject{class: thrownClass}

	var firedHandler string
	h0Op := &fakeOpcode{name: "h0", do: func(t *Thread, f *BytecodeFrame) {
		firedHandler = "h0"
		f.ReturnToThreadLoop = true
		t.AsyncReturn(nil, nil)
	}}
	h1Op := &fakeOpcode{name: "h1", do: func(t *Thread, f *BytecodeFrame) {
		firedHandler = "h1"
		f.ReturnToThreadLoop = true
		t.AsyncReturn(nil, nil)
	}}

	method := &fakeMethod{
		name: "m()V", maxLocals: 0, returnType: "V", class: cls,
		code: []Opcode{throwOp(func(*Thread) Value { return exc }), h0Op, h1Op},
		handlers: []ExceptionHandler{
			&fakeHandler{start: 0, end: 1, handler: 1, catchType: "demo/RareException"},
			&fakeHandler{start: 0, end: 1, handler: 2, catchType: "java/lang/Exception"},
		},
	}

	th := pool.newThread(cls)
	th.RunMethod(method, nil, nil)
	pool.Tick()

	if len(loader.resolveCalls) != 1 || len(loader.resolveCalls[0]) != 1 || loader.resolveCalls[0][0] != "demo/RareException" {
		t.Fatalf("expected exactly one resolution request for demo/RareException (the first, declared-earlier, in-range handler), got %v", loader.resolveCalls)
	}
	if firedHandler != "h1" {
		t.Fatalf("expected the second handler (java/lang/Exception) to fire once demo/RareException resolves and fails to match, got %q", firedHandler)
	}
}

func TestUncaughtExceptionDispatch(t *testing.T) {
	pool := newTestPool()
	loader := pool.bootstrap.(*fakeLoader)

	dispatched := false
	threadClass := &fakeClass{name: "java/lang/Thread", loader: loader, supers: map[string]bool{}, methods: map[string]Method{}}
	dispatchMethod := &fakeMethod{
		name: "dispatchUncaughtException(Ljava/lang/Throwable;)V", returnType: "V", class: threadClass,
		native: true,
		nativeFn: func(t *Thread, args []Value) Value {
			dispatched = true
			return nil
		},
	}
	threadClass.methods["dispatchUncaughtException(Ljava/lang/Throwable;)V"] = dispatchMethod
	loader.initialized["java/lang/Thread"] = threadClass

	excClass := &fakeClass{name: "java/lang/Exception", loader: loader, supers: map[string]bool{}}
	exc := &fakeObject{class: excClass}

	cls := simpleClass(loader)
	method := &fakeMethod{
		name: "m()V", maxLocals: 0, returnType: "V", class: cls,
		code: []Opcode{throwOp(func(*Thread) Value { return exc })},
	}

	th := pool.newThread(cls)
	th.RunMethod(method, nil, nil)
	pool.Tick()

	if !dispatched {
		t.Fatalf("uncaught exception was not dispatched")
	}
}

func TestParkUnparkWithPriorUnpark(t *testing.T) {
	pool := newTestPool()
	cls := simpleClass(pool.bootstrap)
	th := pool.newThread(cls)
	th.status = StatusRunnable

	pool.Unpark(th)
	pool.Park(th)

	if pool.IsParked(th) {
		t.Fatalf("expected park to be pre-satisfied by the prior unpark")
	}
	if th.GetStatus() != StatusRunnable {
		t.Fatalf("expected RUNNABLE, got %s", th.GetStatus())
	}
}

func TestResurrection(t *testing.T) {
	pool := newTestPool()
	cls := simpleClass(pool.bootstrap)
	th := pool.newThread(cls)
	th.status = StatusRunning
	th.stack = nil

	th.SetStatus(StatusTerminated, nil)
	if th.GetStatus() != StatusTerminated {
		t.Fatalf("expected TERMINATED, got %s", th.GetStatus())
	}

	pool.ResurrectThread(th)
	th.SetStatus(StatusRunnable, nil)
	if th.GetStatus() != StatusRunnable {
		t.Fatalf("expected RUNNABLE after resurrection, got %s", th.GetStatus())
	}
}

func TestIllegalTransitionPanics(t *testing.T) {
	pool := newTestPool()
	cls := simpleClass(pool.bootstrap)
	th := pool.newThread(cls)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for NEW -> BLOCKED")
		}
	}()
	th.SetStatus(StatusBlocked, &fakeMonitor{})
}
