package runtime

import "github.com/chazu/threadvm/jvm"

// ExceptionHandler is one declared catch clause in a Method's exception
// table (§4.1's start_pc/end_pc/handler_pc/catch_type quadruple).
type ExceptionHandler struct {
	Start, End, Handler uint32
	CatchTypeName       string
}

func (h *ExceptionHandler) StartPC() uint32   { return h.Start }
func (h *ExceptionHandler) EndPC() uint32     { return h.End }
func (h *ExceptionHandler) HandlerPC() uint32 { return h.Handler }
func (h *ExceptionHandler) CatchType() string { return h.CatchTypeName }

// NewThrowable allocates an instance of cls carrying msg, the shape
// produced by Thread.ThrowNewException's <init>(String) convention.
func NewThrowable(cls *Class, msg string) jvm.Value {
	obj := NewObject(cls, cls.NumFields)
	obj.message = msg
	return FromObjectPtr(obj)
}

// DefineExceptionClass registers a throwable class whose
// <init>(Ljava/lang/String;)V stores the message on the new instance —
// the minimal constructor every system exception needs to support
// Thread.ThrowNewException.
func DefineExceptionClass(loader *ClassLoader, name string, super *Class) *Class {
	cls := loader.Define(NewClass(name, super, loader))
	cls.AddMethod("<init>(Ljava/lang/String;)V", &Method{
		Signature: "<init>(Ljava/lang/String;)V",
		Return:    "V",
		Fn: func(t *jvm.Thread, args []jvm.Value) jvm.Value {
			recv := args[0].(Value).ObjectPtr()
			if len(args) > 1 {
				if s, ok := args[1].(string); ok {
					recv.message = s
				}
			}
			return nil
		},
	})
	loader.MarkInitialized(name)
	return cls
}
