package jvm

import "fmt"

// HostFault reports a host-side invariant violation (§7): an illegal status
// transition, a return-value sanity-check failure, or an attempt to run a
// method in the wrong frame kind. These are never surfaced as JVM
// exceptions; they are implementation bugs and the caller should treat them
// as fatal.
type HostFault struct {
	Thread  *Thread
	Message string
}

func (e *HostFault) Error() string {
	if e.Thread == nil {
		return fmt.Sprintf("jvm: host fault: %s", e.Message)
	}
	return fmt.Sprintf("jvm: host fault on thread %d (%s): %s", e.Thread.ref, e.Thread.status, e.Message)
}

func hostFault(t *Thread, format string, args ...any) *HostFault {
	return &HostFault{Thread: t, Message: fmt.Sprintf(format, args...)}
}
