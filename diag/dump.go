// Package diag exposes read-only thread-dump diagnostics for a running
// jvm.ThreadPool, adapted from the teacher's content-addressed code
// distribution protocol (vm/dist): the same gate/trust shape, repurposed
// from shipping code chunks between peers to shipping a snapshot of live
// thread state to a debugging client.
package diag

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/threadvm/jvm"
)

// FrameDump is one activation record in a captured stack trace.
type FrameDump struct {
	Method string   `cbor:"1,keyasint"`
	PC     uint32   `cbor:"2,keyasint"`
	Locals []string `cbor:"3,keyasint,omitempty"`
	Stack  []string `cbor:"4,keyasint,omitempty"`
}

// ThreadDump is one thread's status plus its captured call stack,
// innermost frame first.
type ThreadDump struct {
	ThreadRef int         `cbor:"1,keyasint"`
	Status    string      `cbor:"2,keyasint"`
	Frames    []FrameDump `cbor:"3,keyasint"`
}

// PoolDump is a snapshot of every thread in a pool at the moment of
// capture.
type PoolDump struct {
	Threads []ThreadDump `cbor:"1,keyasint"`
}

// Capability gates required to receive parts of a dump: any client can ask
// for thread status and PC, but locals and operand-stack contents may carry
// sensitive program state, so they must be explicitly requested and granted.
const (
	CapDumpThreads = "dump:threads"
	CapDumpLocals  = "dump:locals"
	CapDumpStack   = "dump:stack"
)

// capabilityStrikes weighs how severely a denied request for a capability
// counts against a peer's trust. Thread status and PCs are public by
// default, so asking for them without being granted is a minor, likely
// accidental, malformed request; asking for locals or operand-stack
// contents without being granted is an attempt to read live program state
// the peer was explicitly not cleared for, and is treated as severely as
// defaultBanThreshold ordinary violations — one such attempt is enough to
// ban outright.
var capabilityStrikes = map[string]int{
	CapDumpThreads: 1,
	CapDumpLocals:  defaultBanThreshold,
	CapDumpStack:   defaultBanThreshold,
}

const defaultBanThreshold = 3

// DumpGate controls which parts of a dump a debug client may receive. A nil
// allowed set means "allow every capability"; unlike the teacher's
// open-ended CapabilityManifest, a PoolDump only ever exposes the three
// capabilities above, so Check's required list is always a subset of them.
type DumpGate struct {
	allowed map[string]bool // nil = allow all
	denied  map[string]bool
}

// NewPermissiveGate creates a gate that allows every dump capability.
func NewPermissiveGate() *DumpGate {
	return &DumpGate{}
}

// NewRestrictedGate creates a gate that only allows the given capabilities.
func NewRestrictedGate(allowed []string) *DumpGate {
	m := make(map[string]bool, len(allowed))
	for _, c := range allowed {
		m[c] = true
	}
	return &DumpGate{allowed: m}
}

// Check verifies that every capability in required is allowed by g.
func (g *DumpGate) Check(required []string) error {
	for _, cap := range required {
		if g.denied != nil && g.denied[cap] {
			return fmt.Errorf("diag: capability %q is explicitly denied", cap)
		}
		if g.allowed != nil && !g.allowed[cap] {
			return fmt.Errorf("diag: capability %q is not allowed", cap)
		}
	}
	return nil
}

// Deny adds a capability to the deny list, taking precedence over allowed.
func (g *DumpGate) Deny(cap string) {
	if g.denied == nil {
		g.denied = make(map[string]bool)
	}
	g.denied[cap] = true
}

// PeerTrust tracks the trust level of a single debug client.
type PeerTrust struct {
	PeerID          string
	SuccessfulDumps int
	FailedDumps     int
	Strikes         int
	LastSeen        time.Time
	Banned          bool
}

// PeerLedger maintains trust data for all known debug clients, weighing
// denied requests by how sensitive the capability was (capabilityStrikes)
// rather than counting every violation equally the way the teacher's
// peer-sync reputation tracker counted every hash mismatch the same.
type PeerLedger struct {
	mu           sync.RWMutex
	peers        map[string]*PeerTrust
	banThreshold int
}

func NewPeerLedger() *PeerLedger {
	return &PeerLedger{
		peers:        make(map[string]*PeerTrust),
		banThreshold: defaultBanThreshold,
	}
}

func (pl *PeerLedger) getOrCreate(peerID string) *PeerTrust {
	p, ok := pl.peers[peerID]
	if !ok {
		p = &PeerTrust{PeerID: peerID}
		pl.peers[peerID] = p
	}
	p.LastSeen = time.Now()
	return p
}

// RecordSuccess records a dump successfully delivered to peerID.
func (pl *PeerLedger) RecordSuccess(peerID string) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.getOrCreate(peerID).SuccessfulDumps++
}

// RecordFailure records an ordinary failed dump request (e.g. the pool was
// unavailable), which does not by itself count toward a ban.
func (pl *PeerLedger) RecordFailure(peerID string) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.getOrCreate(peerID).FailedDumps++
}

// recordDenied strikes peerID for being denied cap, weighted by how
// sensitive cap is, and bans the peer once accumulated strikes reach the
// threshold.
func (pl *PeerLedger) recordDenied(peerID, cap string) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	p := pl.getOrCreate(peerID)
	p.Strikes += capabilityStrikes[cap]
	if p.Strikes >= pl.banThreshold {
		p.Banned = true
	}
}

func (pl *PeerLedger) IsBanned(peerID string) bool {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	p, ok := pl.peers[peerID]
	return ok && p.Banned
}

// GetTrust returns a copy of the peer's trust data, or nil if the peer is
// unknown.
func (pl *PeerLedger) GetTrust(peerID string) *PeerTrust {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	p, ok := pl.peers[peerID]
	if !ok {
		return nil
	}
	copy := *p
	return &copy
}

func (pl *PeerLedger) PeerCount() int {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	return len(pl.peers)
}

// DumpPool captures pool's current state for peerID, gated by gate and
// tracked by peers. requested lists which optional capabilities (beyond the
// always-required CapDumpThreads) the client is asking for; a capability
// the client never asked for is simply omitted from the dump rather than
// checked, so a client that only ever asks for thread status can never be
// strikeable for lacking locals or stack access. A denied capability that
// was actually requested records a strike against the peer's trust,
// weighted by capabilityStrikes, rather than returning a partial dump
// silently.
func DumpPool(pool *jvm.ThreadPool, gate *DumpGate, peers *PeerLedger, peerID string, requested []string) (*PoolDump, error) {
	if peers.IsBanned(peerID) {
		return nil, fmt.Errorf("diag: peer %q is banned", peerID)
	}
	if err := gate.Check([]string{CapDumpThreads}); err != nil {
		peers.recordDenied(peerID, CapDumpThreads)
		return nil, fmt.Errorf("diag: %w", err)
	}

	wants := make(map[string]bool, len(requested))
	for _, c := range requested {
		wants[c] = true
	}

	includeLocals := false
	if wants[CapDumpLocals] {
		if err := gate.Check([]string{CapDumpLocals}); err != nil {
			peers.recordDenied(peerID, CapDumpLocals)
			return nil, fmt.Errorf("diag: %w", err)
		}
		includeLocals = true
	}

	includeStack := false
	if wants[CapDumpStack] {
		if err := gate.Check([]string{CapDumpStack}); err != nil {
			peers.recordDenied(peerID, CapDumpStack)
			return nil, fmt.Errorf("diag: %w", err)
		}
		includeStack = true
	}

	dump := &PoolDump{}
	for _, th := range pool.GetThreads() {
		td := ThreadDump{ThreadRef: th.Ref(), Status: th.GetStatus().String()}
		for _, entry := range th.GetStackTrace() {
			fd := FrameDump{PC: entry.PC}
			if entry.Method != nil {
				fd.Method = entry.Method.FullSignature()
			}
			if includeLocals {
				fd.Locals = describeValues(entry.LocalsSnapshot)
			}
			if includeStack {
				fd.Stack = describeValues(entry.StackSnapshot)
			}
			td.Frames = append(td.Frames, fd)
		}
		dump.Threads = append(dump.Threads, td)
	}

	peers.RecordSuccess(peerID)
	return dump, nil
}

// describeValues renders a snapshot of jvm.Value slots as opaque strings:
// diag never assumes a concrete Value representation, so it can only ask
// each slot to describe itself.
func describeValues(vs []jvm.Value) []string {
	if vs == nil {
		return nil
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = describeValue(v)
	}
	return out
}

func describeValue(v jvm.Value) string {
	if v == nil {
		return "null"
	}
	if c, ok := v.(jvm.ClassOf); ok {
		if cls := c.JVMClass(); cls != nil {
			return cls.TypeName()
		}
	}
	return fmt.Sprintf("%v", v)
}
