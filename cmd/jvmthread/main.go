// Command jvmthread drives the scheduler against a small set of built-in
// demo classes: a synchronized counter shared by several threads, and a
// method that throws to exercise the uncaught-exception path.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/threadvm/diag"
	"github.com/chazu/threadvm/jvm"
	"github.com/chazu/threadvm/runtime"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose (debug-level) scheduler logging")
	configPath := flag.String("config", "", "Path to a TOML scheduler config (see jvm.Config)")
	numWorkers := flag.Int("workers", 3, "Number of threads contending on the shared counter")
	incrementsPer := flag.Int("increments", 4, "Increments each worker performs")
	dump := flag.Bool("dump", false, "Print a thread dump to stderr after each tick")
	failing := flag.Bool("throw", false, "Also run a thread whose method throws uncaught")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: jvmthread [options]\n\n")
		fmt.Fprintf(os.Stderr, "Runs a demo synchronized counter across several cooperatively scheduled threads.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		commonlog.Configure(2, nil)
	}

	cfg := jvm.DefaultConfig()
	if *configPath != "" {
		loaded, err := jvm.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jvmthread: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	loader, counterClass := buildDemoClasses()

	done := false
	pool := jvm.NewThreadPool(cfg, loader, func() { done = true })

	incMethod := counterClass.MethodLookup(nil, "increment()V")
	for i := 0; i < *numWorkers && *incrementsPer > 0; i++ {
		th := pool.NewThread(counterClass)
		// Each increment is started from the previous one's completion callback.
		var runFrom func(remaining int)
		runFrom = func(remaining int) {
			var next func(e, rv jvm.Value)
			if remaining > 1 {
				next = func(e, rv jvm.Value) { runFrom(remaining - 1) }
			}
			th.RunMethod(incMethod, []jvm.Value{sharedCounter}, next)
		}
		runFrom(*incrementsPer)
	}

	if *failing {
		throwingClass := loader.GetResolvedClass("demo/Faulty").(*runtime.Class)
		th := pool.NewThread(throwingClass)
		boom := throwingClass.MethodLookup(nil, "boom()V")
		th.RunMethod(boom, nil, nil)
	}

	gate := diag.NewPermissiveGate()
	peers := diag.NewPeerLedger()

	ticks := 0
	for !done && ticks < 10_000 {
		pool.Tick()
		ticks++
		if *dump {
			printDump(pool, gate, peers)
		}
	}

	fmt.Printf("counter = %d after %d ticks\n", sharedCounter.ObjectPtr().GetField(0).Int(), ticks)
}

// sharedCounter is the single demo/Counter instance every worker
// synchronizes on; it is package-level purely because the demo has no
// other place to stash a heap reference between thread constructions.
var sharedCounter runtime.Value

// buildDemoClasses wires up java/lang/Thread's minimal uncaught-exception
// handler (required by jvm.Thread.HandleUncaughtException) plus the
// demo/Counter and demo/Faulty classes exercised by main.
func buildDemoClasses() (*runtime.ClassLoader, *runtime.Class) {
	loader := runtime.NewClassLoader()

	threadClass := loader.Define(runtime.NewClass("java/lang/Thread", nil, loader))
	threadClass.AddMethod("dispatchUncaughtException(Ljava/lang/Throwable;)V", &runtime.Method{
		Signature: "dispatchUncaughtException(Ljava/lang/Throwable;)V",
		Return:    "V",
		Fn: func(t *jvm.Thread, args []jvm.Value) jvm.Value {
			e := args[1].(runtime.Value)
			fmt.Fprintf(os.Stderr, "uncaught exception: %s\n", e.ObjectPtr().Message())
			return nil
		},
	})
	loader.MarkInitialized("java/lang/Thread")

	runtime.DefineExceptionClass(loader, "java/lang/RuntimeException", nil)

	counterClass := loader.Define(runtime.NewClass("demo/Counter", nil, loader))
	counterClass.NumFields = 1
	sharedCounter = counterClass.NewInstance().(runtime.Value)
	sharedCounter.ObjectPtr().SetField(0, runtime.FromInt(0))

	// increment(): reads the field, adds one, writes it back, all inside a
	// synchronized method body so concurrent workers serialize on the
	// receiver's monitor rather than racing the read-modify-write.
	incMethod := &runtime.Method{
		Signature:    "increment()V",
		Synchronized: true,
		Return:       "V",
		Locals:       1,
	}
	incMethod.Ops = []jvm.Opcode{
		&incrementFieldOp{},
		runtime.NewReturn(),
	}
	counterClass.AddMethod(incMethod.Signature, incMethod)

	faultyClass := loader.Define(runtime.NewClass("demo/Faulty", nil, loader))
	boomMethod := &runtime.Method{
		Signature: "boom()V",
		Return:    "V",
		Fn: func(t *jvm.Thread, args []jvm.Value) jvm.Value {
			t.ThrowNewException("java/lang/RuntimeException", "boom")
			return nil
		},
	}
	faultyClass.AddMethod(boomMethod.Signature, boomMethod)

	return loader, counterClass
}

// incrementFieldOp is a one-off opcode, not part of the general demo
// instruction set in runtime/opcodes.go, since it needs to reach into
// field 0 of its own receiver rather than the operand stack alone.
type incrementFieldOp struct{}

func (incrementFieldOp) IncPc(f *jvm.BytecodeFrame) { f.PC++ }
func (incrementFieldOp) Name() string               { return "increment_field" }

func (incrementFieldOp) Execute(t *jvm.Thread, f *jvm.BytecodeFrame) {
	recv := f.Locals[0].(runtime.Value)
	obj := recv.ObjectPtr()
	obj.SetField(0, runtime.FromInt(obj.GetField(0).Int()+1))
	f.PC++
}

func printDump(pool *jvm.ThreadPool, gate *diag.DumpGate, peers *diag.PeerLedger) {
	dump, err := diag.DumpPool(pool, gate, peers, "jvmthread-cli", []string{diag.CapDumpLocals})
	if err != nil {
		fmt.Fprintf(os.Stderr, "dump: %v\n", err)
		return
	}
	for _, td := range dump.Threads {
		fmt.Fprintf(os.Stderr, "thread %d: %s\n", td.ThreadRef, td.Status)
		for _, fd := range td.Frames {
			fmt.Fprintf(os.Stderr, "  %s pc=%d locals=%v\n", fd.Method, fd.PC, fd.Locals)
		}
	}
}
