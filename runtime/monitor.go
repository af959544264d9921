package runtime

import "github.com/chazu/threadvm/jvm"

// CooperativeMonitor is a non-blocking jvm.Monitor: Enter never calls into
// Go's sync primitives (the scheduling model is single-threaded
// cooperative, so a real mutex would deadlock the one and only running
// thread). A contended Enter queues the waiter and returns false; the
// thread that currently owns the monitor grants it to the next waiter on
// Exit.
type CooperativeMonitor struct {
	owner   *jvm.Thread
	waiters []pendingEnter

	waitSet []waitingThread
}

type pendingEnter struct {
	thread     *jvm.Thread
	onAcquired func()
}

type waitingThread struct {
	thread *jvm.Thread
	timed  bool
}

func NewCooperativeMonitor() *CooperativeMonitor {
	return &CooperativeMonitor{}
}

// Enter grants the monitor immediately if free or already owned by t
// (reentrant), otherwise queues the waiter and transitions t to BLOCKED.
func (m *CooperativeMonitor) Enter(t *jvm.Thread, onAcquired func()) bool {
	if m.owner == nil || m.owner == t {
		m.owner = t
		return true
	}
	m.waiters = append(m.waiters, pendingEnter{thread: t, onAcquired: onAcquired})
	t.SetStatus(jvm.StatusBlocked, m)
	return false
}

// Exit releases the monitor and, if a waiter is queued, hands it off and
// runs its onAcquired callback synchronously with the new owner already
// installed.
func (m *CooperativeMonitor) Exit(t *jvm.Thread) {
	if m.owner != t {
		return
	}
	if len(m.waiters) == 0 {
		m.owner = nil
		return
	}
	next := m.waiters[0]
	m.waiters = m.waiters[1:]
	m.owner = next.thread
	next.thread.SetStatus(jvm.StatusRunnable, nil)
	next.onAcquired()
}

// Wait releases the monitor, parks t in the wait set, and transitions it
// to WAITING (or TIMED_WAITING). The monitor is re-acquired on the waiter's
// behalf before it is made runnable again: by Notify/NotifyAll if the
// monitor is free, otherwise by the current owner's Exit. A timed wait only
// selects TIMED_WAITING; nothing here wakes the waiter when time passes.
func (m *CooperativeMonitor) Wait(t *jvm.Thread, timed bool) {
	m.waitSet = append(m.waitSet, waitingThread{thread: t, timed: timed})
	m.Exit(t)
	if timed {
		t.SetStatus(jvm.StatusTimedWaiting, m)
	} else {
		t.SetStatus(jvm.StatusWaiting, m)
	}
}

// Notify wakes a single waiting thread, re-queuing it to re-acquire the
// monitor the same way a contended Enter would.
func (m *CooperativeMonitor) Notify() {
	if len(m.waitSet) == 0 {
		return
	}
	w := m.waitSet[0]
	m.waitSet = m.waitSet[1:]
	m.requeue(w.thread)
}

// NotifyAll wakes every waiting thread.
func (m *CooperativeMonitor) NotifyAll() {
	waiters := m.waitSet
	m.waitSet = nil
	for _, w := range waiters {
		m.requeue(w.thread)
	}
}

// requeue re-admits a notified waiter to the monitor. If it's free, the
// waiter becomes RUNNABLE immediately; otherwise it re-acquires under
// UNINTERRUPTABLY_BLOCKED, matching real JVM semantics that monitor
// reacquisition after wait() cannot itself be interrupted.
func (m *CooperativeMonitor) requeue(t *jvm.Thread) {
	if m.owner == nil {
		m.owner = t
		t.SetStatus(jvm.StatusRunnable, nil)
		return
	}
	m.waiters = append(m.waiters, pendingEnter{thread: t, onAcquired: func() {}})
	t.SetStatus(jvm.StatusUninterruptablyBlocked, m)
}

func (m *CooperativeMonitor) IsWaiting(t *jvm.Thread) bool {
	for _, w := range m.waitSet {
		if w.thread == t && !w.timed {
			return true
		}
	}
	return false
}

func (m *CooperativeMonitor) IsTimedWaiting(t *jvm.Thread) bool {
	for _, w := range m.waitSet {
		if w.thread == t && w.timed {
			return true
		}
	}
	return false
}

func (m *CooperativeMonitor) IsBlocked(t *jvm.Thread) bool {
	for _, w := range m.waiters {
		if w.thread == t {
			return true
		}
	}
	return false
}
