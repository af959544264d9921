package runtime

// Object is a heap-allocated JVM instance. Field storage uses the same
// hybrid layout as the Smalltalk VM this package descends from: four
// inline slots cover the common case of a small number of fields, with an
// overflow slice only allocated when needed.
type Object struct {
	Class *Class

	slot0, slot1, slot2, slot3 Value
	overflow                   []Value

	// longValue backs FromLong's boxed-long representation; set only on
	// instances of longClass.
	longValue int64

	// message backs exception objects constructed via <init>(String).
	message string

	monitor *CooperativeMonitor
}

// Monitor lazily creates and returns the intrinsic monitor backing this
// object's synchronized blocks and instance-synchronized methods.
func (o *Object) Monitor() *CooperativeMonitor {
	if o.monitor == nil {
		o.monitor = NewCooperativeMonitor()
	}
	return o.monitor
}

const numInlineSlots = 4

// NewObject allocates an instance of cls with numFields fields, all
// initialized to Null.
func NewObject(cls *Class, numFields int) *Object {
	obj := &Object{Class: cls, slot0: Null, slot1: Null, slot2: Null, slot3: Null}
	if numFields > numInlineSlots {
		obj.overflow = make([]Value, numFields-numInlineSlots)
		for i := range obj.overflow {
			obj.overflow[i] = Null
		}
	}
	return obj
}

func (o *Object) GetField(index int) Value {
	switch index {
	case 0:
		return o.slot0
	case 1:
		return o.slot1
	case 2:
		return o.slot2
	case 3:
		return o.slot3
	default:
		return o.overflow[index-numInlineSlots]
	}
}

func (o *Object) SetField(index int, v Value) {
	switch index {
	case 0:
		o.slot0 = v
	case 1:
		o.slot1 = v
	case 2:
		o.slot2 = v
	case 3:
		o.slot3 = v
	default:
		o.overflow[index-numInlineSlots] = v
	}
}

// Message returns the string an exception object was constructed with, or
// "" if it wasn't constructed through NewInstance/<init>(String).
func (o *Object) Message() string { return o.message }
