package jvm

// This file names the external collaborators the core depends on but does
// not implement. Package runtime provides reference implementations;
// bytecode opcode semantics, class-file parsing, and CLI/boot concerns stay
// fully external per spec.md §1.

// Method describes a resolved, invocable JVM method.
type Method interface {
	// IsNative reports whether this method has a native implementation
	// rather than a bytecode body.
	IsNative() bool
	// IsSynchronized reports whether entry requires holding the method's
	// monitor for the duration of the activation.
	IsSynchronized() bool
	// IsAbstract reports whether the method has no body at all; runMethod
	// on an abstract method is a host-side fault.
	IsAbstract() bool
	// MaxLocals is the fixed size of the locals array for a bytecode frame.
	MaxLocals() int
	// Code returns the opcode stream for a bytecode method.
	Code() []Opcode
	// ExceptionHandlers returns the method's exception table, in
	// declaration order (tie-break: first match wins, per §4.1).
	ExceptionHandlers() []ExceptionHandler
	// MethodLock returns the Monitor instance used to guard a synchronized
	// method invocation for the given thread and frame.
	MethodLock(t *Thread, f StackFrame) Monitor
	// NativeFunction returns the Go function backing a native method.
	// Its signature is collaborator-defined; the core only invokes it
	// through ConvertArgs/InvokeNative on the Method itself.
	NativeFunction() any
	// ConvertArgs adapts raw runMethod arguments to whatever calling
	// convention NativeFunction expects.
	ConvertArgs(t *Thread, args []Value) []Value
	// InvokeNative actually calls the native function with converted args,
	// returning the method's raw return value.
	InvokeNative(t *Thread, converted []Value) Value
	// ReturnType is the method's descriptor return type: "V", "I", "J",
	// "D", "F", "Z", "B", "C", "S", or a reference type descriptor.
	ReturnType() string
	// FullSignature is a human-readable signature used in diagnostics.
	FullSignature() string
	// Class returns the declaring class, used for return-type castability
	// checks and exception-handler resolution.
	Class() Class
}

// Class describes a resolved JVM class.
type Class interface {
	// Loader returns the class loader that resolved this class.
	Loader() ClassLoader
	// TypeName returns the class's fully qualified name.
	TypeName() string
	// IsCastable reports whether a value of this class can be treated as
	// other (supertype/interface check).
	IsCastable(other Class) bool
	// MethodLookup resolves a method by signature on this class (or an
	// ancestor), used by throwNewException to find <init>.
	MethodLookup(t *Thread, signature string) Method
	// NewInstance allocates a fresh, uninitialized instance of this class,
	// used by throwNewException before invoking the located constructor.
	NewInstance() Value
}

// ClassLoader resolves and initializes classes, possibly asynchronously.
type ClassLoader interface {
	// GetResolvedClass returns the already-resolved Class for name, or nil
	// if resolution has not completed (or not been requested) yet.
	GetResolvedClass(name string) Class
	// GetInitializedClass returns the Class for name if it has completed
	// static initialization, or nil otherwise.
	GetInitializedClass(name string) Class
	// ResolveClasses kicks off asynchronous resolution of every name in
	// names, invoking cb once all have resolved (or on first failure).
	ResolveClasses(t *Thread, names []string, cb func(error))
	// InitializeClass kicks off asynchronous static initialization of
	// name, invoking cb on completion. If bootstrap is true, the bootstrap
	// loader is used instead of this loader.
	InitializeClass(t *Thread, name string, cb func(error), bootstrap bool)
}

// Opcode is one bytecode instruction.
type Opcode interface {
	// Execute performs this instruction's effect against the given
	// thread/frame. Implementations are responsible for advancing pc,
	// mutating the operand stack and locals, and setting
	// BytecodeFrame.ReturnToThreadLoop when the instruction must yield.
	Execute(t *Thread, f *BytecodeFrame)
	// IncPc advances f's pc past this instruction; used by
	// BytecodeFrame.ScheduleResume to skip over an invoke instruction on
	// return.
	IncPc(f *BytecodeFrame)
	// Name is the opcode's mnemonic, for diagnostics.
	Name() string
}

// Monitor mediates synchronized-method entry and wait/notify. See
// runtime.CooperativeMonitor for a concrete, single-threaded-cooperative
// implementation.
type Monitor interface {
	// Enter attempts to acquire the monitor for t. Returns true if
	// acquired synchronously. If it cannot be acquired synchronously, the
	// implementation transitions t to BLOCKED (via the pool) and returns
	// false; onAcquired is invoked later, once acquired, by the monitor's
	// own scheduling — the core never polls.
	Enter(t *Thread, onAcquired func()) bool
	// Exit releases the monitor held by t.
	Exit(t *Thread)
	IsWaiting(t *Thread) bool
	IsTimedWaiting(t *Thread) bool
	IsBlocked(t *Thread) bool
}

// ExceptionHandler is one entry in a method's exception table.
type ExceptionHandler interface {
	StartPC() uint32
	EndPC() uint32
	HandlerPC() uint32
	// CatchType is the fully qualified exception class name, or "<any>"
	// for a finally handler.
	CatchType() string
}

// Throwable is implemented by any Value used as a JVM exception object, so
// the core can look up its class without depending on a concrete object
// representation.
type Throwable interface {
	ExceptionClass() Class
}

// ClassOf is implemented by any Value representing a JVM object reference,
// so the return-value sanity check (§4.6) can verify castability without
// depending on a concrete object representation.
type ClassOf interface {
	JVMClass() Class
}

// StackTraceEntry is one frame of a captured stack trace. Snapshot and
// locals are independent copies taken at capture time (§3).
type StackTraceEntry struct {
	Method         Method
	PC             uint32
	StackSnapshot  []Value
	LocalsSnapshot []Value
}
