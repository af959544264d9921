// Package jvm implements the thread scheduler and execution core of a JVM
// hosted inside a cooperative, single-threaded event-driven environment.
//
// It owns three tightly coupled pieces: the stack-frame execution model
// (StackFrame and its three variants), the per-thread state machine
// (Thread), and the thread pool scheduler (ThreadPool). Bytecode opcode
// semantics, class loading, monitor primitives, native-method registries,
// and logging backends are external collaborators, consumed here only
// through the interfaces in collaborators.go.
package jvm
