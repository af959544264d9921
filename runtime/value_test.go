package runtime

import "testing"

func TestIntRoundTrip(t *testing.T) {
	for _, n := range []int32{0, 1, -1, 42, -42, 1 << 20, -(1 << 20)} {
		v := FromInt(n)
		if !v.IsInt() {
			t.Fatalf("FromInt(%d): IsInt false", n)
		}
		if got := v.Int(); got != n {
			t.Errorf("FromInt(%d).Int() = %d", n, got)
		}
	}
}

func TestDoubleRoundTrip(t *testing.T) {
	for _, f := range []float64{0, 1.5, -1.5, 3.14159, -0.0001} {
		v := FromDouble(f)
		if !v.IsDouble() {
			t.Fatalf("FromDouble(%v): IsDouble false", f)
		}
		if got := v.Double(); got != f {
			t.Errorf("FromDouble(%v).Double() = %v", f, got)
		}
	}
}

func TestBoolRoundTrip(t *testing.T) {
	if !FromBool(true).IsBool() || FromBool(true).Bool() != true {
		t.Error("FromBool(true) round trip failed")
	}
	if !FromBool(false).IsBool() || FromBool(false).Bool() != false {
		t.Error("FromBool(false) round trip failed")
	}
	if FromBool(true) != True || FromBool(false) != False {
		t.Error("FromBool should yield the canonical True/False constants")
	}
}

func TestNullIsNull(t *testing.T) {
	if !Null.IsNull() {
		t.Error("Null.IsNull() = false")
	}
}

func TestObjectRoundTrip(t *testing.T) {
	cls := NewClass("demo/Thing", nil, nil)
	obj := NewObject(cls, 1)
	v := FromObjectPtr(obj)
	if !v.IsObject() {
		t.Fatal("FromObjectPtr: IsObject false")
	}
	if v.ObjectPtr() != obj {
		t.Error("ObjectPtr() did not return the same pointer")
	}
	if v.JVMClass().TypeName() != "demo/Thing" {
		t.Errorf("JVMClass().TypeName() = %s", v.JVMClass().TypeName())
	}
}

func TestLongRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 1 << 40, -(1 << 40)} {
		v := FromLong(n)
		if got := v.Long(); got != n {
			t.Errorf("FromLong(%d).Long() = %d", n, got)
		}
	}
}

func TestLongPanicsOnWrongClass(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic unboxing a non-long object as Long()")
		}
	}()
	cls := NewClass("demo/Thing", nil, nil)
	FromObjectPtr(NewObject(cls, 0)).Long()
}

func TestNonObjectJVMClassIsNil(t *testing.T) {
	if FromInt(5).JVMClass() != nil {
		t.Error("JVMClass() on a non-object Value should be nil")
	}
}
