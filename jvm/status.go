package jvm

import "fmt"

// Value is a single JVM operand-stack or local-variable slot. The core is
// agnostic to the concrete representation: it may hold a boxed primitive,
// an object reference, or nil (the JVM null reference). Package runtime
// supplies a concrete NaN-boxed implementation; tests use plain Go values.
type Value = any

// ThreadStatus enumerates every state a Thread can occupy.
type ThreadStatus int

const (
	StatusNew ThreadStatus = iota
	StatusRunnable
	StatusRunning
	StatusBlocked
	StatusWaiting
	StatusTimedWaiting
	StatusUninterruptablyBlocked
	StatusAsyncWaiting
	StatusParked
	StatusTerminated
)

func (s ThreadStatus) String() string {
	switch s {
	case StatusNew:
		return "NEW"
	case StatusRunnable:
		return "RUNNABLE"
	case StatusRunning:
		return "RUNNING"
	case StatusBlocked:
		return "BLOCKED"
	case StatusWaiting:
		return "WAITING"
	case StatusTimedWaiting:
		return "TIMED_WAITING"
	case StatusUninterruptablyBlocked:
		return "UNINTERRUPTABLY_BLOCKED"
	case StatusAsyncWaiting:
		return "ASYNC_WAITING"
	case StatusParked:
		return "PARKED"
	case StatusTerminated:
		return "TERMINATED"
	default:
		return fmt.Sprintf("ThreadStatus(%d)", int(s))
	}
}

// IsSuspended reports whether s is one of the non-running, non-terminal
// "parked waiting for something external" states, per §4.4's post-transition
// side effect table.
func (s ThreadStatus) IsSuspended() bool {
	switch s {
	case StatusBlocked, StatusWaiting, StatusTimedWaiting, StatusParked,
		StatusAsyncWaiting, StatusUninterruptablyBlocked:
		return true
	default:
		return false
	}
}

// requiresMonitor reports whether entering s requires a non-nil monitor
// argument, per §4.4.
func (s ThreadStatus) requiresMonitor() bool {
	switch s {
	case StatusBlocked, StatusWaiting, StatusTimedWaiting, StatusUninterruptablyBlocked:
		return true
	default:
		return false
	}
}

// legalTransitions encodes the state machine of §4.4. The zero value (no
// entry) means "illegal" except for the RUNNING→RUNNABLE edge, which is
// special-cased in Thread.SetStatus (silently collapsed, not a table edge).
var legalTransitions = map[ThreadStatus]map[ThreadStatus]bool{
	StatusNew: {
		StatusRunnable:     true,
		StatusAsyncWaiting: true,
	},
	StatusRunning: {
		StatusTerminated:             true,
		StatusBlocked:                true,
		StatusWaiting:                true,
		StatusTimedWaiting:           true,
		StatusAsyncWaiting:           true,
		StatusParked:                 true,
		// RUNNABLE handled specially: collapses back to RUNNING.
	},
	StatusRunnable: {
		StatusAsyncWaiting: true,
		StatusRunnable:      true,
		StatusRunning:       true,
	},
	StatusAsyncWaiting: {
		StatusRunnable:   true,
		StatusTerminated: true,
	},
	StatusWaiting: {
		StatusUninterruptablyBlocked: true,
		StatusRunnable:                true,
	},
	StatusTimedWaiting: {
		StatusUninterruptablyBlocked: true,
		StatusRunnable:                true,
	},
	StatusBlocked: {
		StatusRunnable: true,
	},
	StatusParked: {
		StatusRunnable: true,
	},
	StatusUninterruptablyBlocked: {
		StatusRunnable: true,
	},
	StatusTerminated: {
		StatusNew: true,
		// RUNNABLE/ASYNC_WAITING reached only via the NEW intermediate
		// (resurrection), handled in Thread.SetStatus.
	},
}
