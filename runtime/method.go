package runtime

import "github.com/chazu/threadvm/jvm"

// Method is an in-memory jvm.Method: either a bytecode body (Code) or a
// native function (Fn), never both.
type Method struct {
	Signature    string
	Synchronized bool
	Abstract     bool
	Locals       int
	Ops          []jvm.Opcode
	Handlers     []jvm.ExceptionHandler
	Return       string
	Fn           func(t *jvm.Thread, args []jvm.Value) jvm.Value

	class *Class
}

func (m *Method) IsNative() bool       { return m.Fn != nil }
func (m *Method) IsSynchronized() bool { return m.Synchronized }
func (m *Method) IsAbstract() bool     { return m.Abstract }
func (m *Method) MaxLocals() int       { return m.Locals }
func (m *Method) Code() []jvm.Opcode   { return m.Ops }
func (m *Method) ExceptionHandlers() []jvm.ExceptionHandler {
	return m.Handlers
}
func (m *Method) NativeFunction() any { return m.Fn }
func (m *Method) ConvertArgs(t *jvm.Thread, args []jvm.Value) []jvm.Value {
	return args
}
func (m *Method) InvokeNative(t *jvm.Thread, converted []jvm.Value) jvm.Value {
	return m.Fn(t, converted)
}
func (m *Method) ReturnType() string    { return m.Return }
func (m *Method) FullSignature() string { return m.class.Name + ">>" + m.Signature }
func (m *Method) Class() jvm.Class      { return m.class }

// MethodLock returns the receiver's intrinsic monitor for an instance
// synchronized method (locals[0] is the receiver by JVM calling
// convention), or the declaring class's monitor for a static one.
func (m *Method) MethodLock(t *jvm.Thread, f jvm.StackFrame) jvm.Monitor {
	if bf, ok := f.(*jvm.BytecodeFrame); ok && len(bf.Locals) > 0 {
		if recv, ok := bf.Locals[0].(Value); ok && recv.IsObject() {
			return recv.ObjectPtr().Monitor()
		}
	}
	return m.class.Monitor()
}
