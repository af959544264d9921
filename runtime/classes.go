package runtime

import (
	"fmt"

	"github.com/chazu/threadvm/jvm"
)

// Class is a minimal, fully in-memory jvm.Class: no class-file parsing, no
// verification, just enough bookkeeping to run demo bytecode and exercise
// the scheduler end to end.
type Class struct {
	Name      string
	Super     *Class
	Ifaces    []*Class
	NumFields int

	loader  *ClassLoader
	methods map[string]*Method
	monitor *CooperativeMonitor
}

// Monitor lazily creates and returns the intrinsic monitor backing this
// class's static synchronized methods.
func (c *Class) Monitor() *CooperativeMonitor {
	if c.monitor == nil {
		c.monitor = NewCooperativeMonitor()
	}
	return c.monitor
}

func NewClass(name string, super *Class, loader *ClassLoader) *Class {
	return &Class{Name: name, Super: super, loader: loader, methods: map[string]*Method{}}
}

func (c *Class) Loader() jvm.ClassLoader { return c.loader }
func (c *Class) TypeName() string        { return c.Name }

// IsCastable reports whether c is other, a subclass of other, or
// implements other as an interface.
func (c *Class) IsCastable(other jvm.Class) bool {
	if other == nil {
		return false
	}
	for cur := c; cur != nil; cur = cur.Super {
		if cur.Name == other.TypeName() {
			return true
		}
		for _, i := range cur.Ifaces {
			if i.IsCastable(other) {
				return true
			}
		}
	}
	return false
}

func (c *Class) MethodLookup(t *jvm.Thread, signature string) jvm.Method {
	for cur := c; cur != nil; cur = cur.Super {
		if m, ok := cur.methods[signature]; ok {
			return m
		}
	}
	return nil
}

// AddMethod registers m under signature, overriding any inherited method
// of the same signature.
func (c *Class) AddMethod(signature string, m *Method) {
	m.class = c
	c.methods[signature] = m
}

func (c *Class) NewInstance() jvm.Value {
	return FromObjectPtr(NewObject(c, c.NumFields))
}

// longClass backs FromLong's boxed representation; it is not registered
// with any loader since bytecode never names it directly.
var longClass = &Class{Name: "runtime/BoxedLong"}

// ClassLoader is a synchronous, in-memory jvm.ClassLoader: resolution and
// initialization complete before the call returns. Real class loading is
// out of scope; this exists to give the reference Class/Method
// implementations somewhere to register.
type ClassLoader struct {
	classes map[string]*Class
	init    map[string]bool
}

func NewClassLoader() *ClassLoader {
	return &ClassLoader{classes: map[string]*Class{}, init: map[string]bool{}}
}

// Define registers cls under its own name, immediately resolved.
func (l *ClassLoader) Define(cls *Class) *Class {
	l.classes[cls.Name] = cls
	return cls
}

// MarkInitialized flags cls as having completed static initialization,
// since this loader never runs a <clinit>.
func (l *ClassLoader) MarkInitialized(name string) {
	l.init[name] = true
}

func (l *ClassLoader) GetResolvedClass(name string) jvm.Class {
	if c, ok := l.classes[name]; ok {
		return c
	}
	return nil
}

func (l *ClassLoader) GetInitializedClass(name string) jvm.Class {
	if !l.init[name] {
		return nil
	}
	return l.GetResolvedClass(name)
}

func (l *ClassLoader) ResolveClasses(t *jvm.Thread, names []string, cb func(error)) {
	for _, n := range names {
		if _, ok := l.classes[n]; !ok {
			cb(fmt.Errorf("runtime: class %s not found", n))
			return
		}
	}
	cb(nil)
}

func (l *ClassLoader) InitializeClass(t *jvm.Thread, name string, cb func(error), bootstrap bool) {
	if _, ok := l.classes[name]; !ok {
		cb(fmt.Errorf("runtime: class %s not found", name))
		return
	}
	l.init[name] = true
	cb(nil)
}
