package jvm

// fakeOpcode is a minimal Opcode used to script bytecode methods in tests
// without a real bytecode compiler, matching vm/*_test.go's style of
// hand-built fixtures rather than a mocking library.
type fakeOpcode struct {
	name string
	do   func(t *Thread, f *BytecodeFrame)
}

func (o *fakeOpcode) Execute(t *Thread, f *BytecodeFrame) { o.do(t, f) }
func (o *fakeOpcode) IncPc(f *BytecodeFrame)               { f.PC++ }
func (o *fakeOpcode) Name() string                         { return o.name }

type fakeHandler struct {
	start, end, handler uint32
	catchType           string
}

func (h *fakeHandler) StartPC() uint32     { return h.start }
func (h *fakeHandler) EndPC() uint32       { return h.end }
func (h *fakeHandler) HandlerPC() uint32   { return h.handler }
func (h *fakeHandler) CatchType() string   { return h.catchType }

type fakeMethod struct {
	name          string
	native        bool
	synchronized  bool
	abstract      bool
	maxLocals     int
	code          []Opcode
	handlers      []ExceptionHandler
	lock          Monitor
	nativeFn      func(t *Thread, args []Value) Value
	returnType    string
	class         Class
}

func (m *fakeMethod) IsNative() bool                    { return m.native }
func (m *fakeMethod) IsSynchronized() bool              { return m.synchronized }
func (m *fakeMethod) IsAbstract() bool                  { return m.abstract }
func (m *fakeMethod) MaxLocals() int                    { return m.maxLocals }
func (m *fakeMethod) Code() []Opcode                    { return m.code }
func (m *fakeMethod) ExceptionHandlers() []ExceptionHandler { return m.handlers }
func (m *fakeMethod) MethodLock(t *Thread, f StackFrame) Monitor { return m.lock }
func (m *fakeMethod) NativeFunction() any               { return m.nativeFn }
func (m *fakeMethod) ConvertArgs(t *Thread, args []Value) []Value { return args }
func (m *fakeMethod) InvokeNative(t *Thread, converted []Value) Value {
	return m.nativeFn(t, converted)
}
func (m *fakeMethod) ReturnType() string    { return m.returnType }
func (m *fakeMethod) FullSignature() string { return m.name }
func (m *fakeMethod) Class() Class          { return m.class }

type fakeClass struct {
	name      string
	loader    ClassLoader
	supers    map[string]bool
	methods   map[string]Method
	instances func() Value
}

func (c *fakeClass) Loader() ClassLoader { return c.loader }
func (c *fakeClass) TypeName() string    { return c.name }
func (c *fakeClass) IsCastable(other Class) bool {
	if other == nil {
		return false
	}
	if other.TypeName() == c.name {
		return true
	}
	return c.supers[other.TypeName()]
}
func (c *fakeClass) MethodLookup(t *Thread, signature string) Method {
	return c.methods[signature]
}
func (c *fakeClass) NewInstance() Value {
	if c.instances != nil {
		return c.instances()
	}
	return &fakeObject{class: c}
}

type fakeObject struct {
	class *fakeClass
	msg   string
}

func (o *fakeObject) JVMClass() Class      { return o.class }
func (o *fakeObject) ExceptionClass() Class { return o.class }

type fakeLoader struct {
	resolved     map[string]Class
	initialized  map[string]Class
	toResolve    map[string]Class
	resolveErr   error
	initErr      error
	resolveCalls [][]string
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		resolved:    map[string]Class{},
		initialized: map[string]Class{},
		toResolve:   map[string]Class{},
	}
}

func (l *fakeLoader) GetResolvedClass(name string) Class    { return l.resolved[name] }
func (l *fakeLoader) GetInitializedClass(name string) Class { return l.initialized[name] }
func (l *fakeLoader) ResolveClasses(t *Thread, names []string, cb func(error)) {
	l.resolveCalls = append(l.resolveCalls, names)
	if l.resolveErr != nil {
		cb(l.resolveErr)
		return
	}
	for _, n := range names {
		if cls, ok := l.toResolve[n]; ok {
			l.resolved[n] = cls
		}
	}
	cb(nil)
}
func (l *fakeLoader) InitializeClass(t *Thread, name string, cb func(error), bootstrap bool) {
	if l.initErr != nil {
		cb(l.initErr)
		return
	}
	cb(nil)
}

type fakeMonitor struct {
	held    bool
	granted bool
}

func (m *fakeMonitor) Enter(t *Thread, onAcquired func()) bool {
	if m.granted || !m.held {
		m.held = true
		return true
	}
	t.SetStatus(StatusBlocked, m)
	return false
}
func (m *fakeMonitor) Exit(t *Thread)          { m.held = false }
func (m *fakeMonitor) IsWaiting(t *Thread) bool      { return false }
func (m *fakeMonitor) IsTimedWaiting(t *Thread) bool { return false }
func (m *fakeMonitor) IsBlocked(t *Thread) bool      { return false }

func newTestPool() *ThreadPool {
	return NewThreadPool(DefaultConfig(), newFakeLoader(), nil)
}
