package jvm

// ThreadPool owns the set of live Threads and the single-RUNNING-at-a-time
// scheduling invariant (§4.5).
type ThreadPool struct {
	Config Config

	threads       []*Thread
	runningThread *Thread
	parkCounts    map[int]int32
	nextRef       int
	bootstrap     ClassLoader

	// emptyCallback fires when the thread set becomes empty during a
	// scheduling tick, per §4.5's scheduling policy.
	emptyCallback func()

	// scheduleTick defers scheduleNext to the next event-loop tick; the
	// default posts to a small in-process queue drained by Tick, matching
	// the teacher's own worker-loop pattern of decoupling a request from
	// its execution (server/vm_worker.go's channel-fed goroutine) without
	// pulling in a goroutine or channel here, since the model is
	// single-threaded cooperative and must never block.
	scheduleTick func(func())

	pending []func()
}

// NewThreadPool creates an empty pool. bootstrap is the class loader used
// for constructing and dispatching system exceptions.
func NewThreadPool(cfg Config, bootstrap ClassLoader, emptyCallback func()) *ThreadPool {
	p := &ThreadPool{
		Config:        cfg,
		parkCounts:    make(map[int]int32),
		bootstrap:     bootstrap,
		emptyCallback: emptyCallback,
	}
	p.scheduleTick = p.deferToPending
	return p
}

func (p *ThreadPool) deferToPending(f func()) {
	p.pending = append(p.pending, f)
}

// Tick runs deferred scheduling requests until the queue is empty,
// including requests queued by the ones it runs. The host event loop is
// expected to call this once per iteration. Because the drain does not stop
// at the requests present when Tick was called, a thread picked after
// another one suspends or terminates starts running within the same Tick
// call.
func (p *ThreadPool) Tick() {
	for len(p.pending) > 0 {
		next := p.pending[0]
		p.pending = p.pending[1:]
		next()
	}
}

func (p *ThreadPool) newThread(cls Class) *Thread {
	p.nextRef++
	t := &Thread{
		ref:       p.nextRef,
		status:    StatusNew,
		pool:      p,
		bootstrap: p.bootstrap,
	}
	p.threads = append(p.threads, t)
	log.Infof("thread %d admitted to pool (%d live)", t.ref, len(p.threads))
	return t
}

// NewThread is the exported entry point for creating a thread; cls names
// the java.lang.Thread subclass instance backing it, and is neither stored
// nor used at this layer.
func (p *ThreadPool) NewThread(cls Class) *Thread {
	return p.newThread(cls)
}

// ResurrectThread re-admits a previously terminated thread to the pool's
// live set.
func (p *ThreadPool) ResurrectThread(t *Thread) {
	for _, existing := range p.threads {
		if existing == t {
			return
		}
	}
	p.threads = append(p.threads, t)
	log.Infof("thread %d re-admitted to pool (%d live)", t.ref, len(p.threads))
}

func (p *ThreadPool) GetThreads() []*Thread {
	out := make([]*Thread, len(p.threads))
	copy(out, p.threads)
	return out
}

func (p *ThreadPool) threadRunnable(t *Thread) {
	if p.runningThread == nil {
		p.scheduleNext()
	}
}

func (p *ThreadPool) threadSuspended(t *Thread) {
	if p.runningThread == t {
		p.runningThread = nil
	}
	p.scheduleNext()
}

func (p *ThreadPool) threadTerminated(t *Thread) {
	p.threads = removeThread(p.threads, t)
	log.Infof("thread %d removed from pool (%d live)", t.ref, len(p.threads))
	if p.runningThread == t {
		p.runningThread = nil
	}
	p.scheduleNext()
}

func removeThread(threads []*Thread, t *Thread) []*Thread {
	out := threads[:0]
	for _, existing := range threads {
		if existing != t {
			out = append(out, existing)
		}
	}
	return out
}

// scheduleNext defers a scheduling attempt to the pending queue that Tick
// drains, per §4.5's rationale: this prevents unbounded synchronous
// recursion when a thread's own termination or suspension would otherwise
// re-enter the dispatch loop inline.
func (p *ThreadPool) scheduleNext() {
	p.scheduleTick(func() {
		if p.Config.SchedulerTickLog {
			log.Debugf("scheduler: tick (%d live, %d pending)", len(p.threads), len(p.pending))
		}
		if p.runningThread != nil {
			return
		}
		if len(p.threads) == 0 {
			log.Infof("scheduler: pool empty")
			if p.emptyCallback != nil {
				p.emptyCallback()
			}
			return
		}
		for _, t := range p.threads {
			if t.GetStatus() == StatusRunnable {
				p.runningThread = t
				log.Infof("scheduler: selected thread %d to run", t.ref)
				t.SetStatus(StatusRunning, nil)
				return
			}
		}
		log.Infof("scheduler: no runnable thread, pool idle")
	})
}

// Park increments t's park count; a positive result suspends t.
func (p *ThreadPool) Park(t *Thread) {
	p.parkCounts[t.ref]++
	if p.parkCounts[t.ref] > 0 {
		t.SetStatus(StatusParked, nil)
	}
}

// Unpark decrements t's park count; a non-positive result makes t
// runnable. The asymmetry with Park is deliberate: an unpark preceding a
// park produces POSIX-semaphore-like semantics where the counter may go
// negative.
func (p *ThreadPool) Unpark(t *Thread) {
	p.parkCounts[t.ref]--
	if p.parkCounts[t.ref] <= 0 {
		t.SetStatus(StatusRunnable, nil)
	}
}

// CompletelyUnpark forces t's park count to zero and makes it runnable
// unconditionally, even if it was not parked (Open Question decision, see
// DESIGN.md).
func (p *ThreadPool) CompletelyUnpark(t *Thread) {
	p.parkCounts[t.ref] = 0
	t.SetStatus(StatusRunnable, nil)
}

func (p *ThreadPool) IsParked(t *Thread) bool {
	return p.parkCounts[t.ref] > 0
}
