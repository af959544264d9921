package jvm

// checkReturnValue validates (rv1, rv2) against method's declared return
// descriptor, per §4.6. It is a host-side check: a failure means the
// interpreter or a native method produced a value the descriptor forbids,
// which is an implementation bug, never a JVM exception.
func checkReturnValue(t *Thread, method Method, rv1 *Value, rv2 *Value) error {
	descriptor := method.ReturnType()

	switch descriptor {
	case "V":
		if rv1 != nil {
			return hostFault(t, "%s declares void but returned a value", method.FullSignature())
		}
		return nil

	case "J", "D":
		if rv1 == nil {
			return hostFault(t, "%s declares a two-slot return but rv1 is absent", method.FullSignature())
		}
		if rv2 == nil || *rv2 != nil {
			return hostFault(t, "%s declares a two-slot return but rv2 is not a present null second slot", method.FullSignature())
		}
		if descriptor == "J" {
			if _, ok := (*rv1).(int64); !ok {
				return hostFault(t, "%s declares J but returned %T", method.FullSignature(), *rv1)
			}
		} else {
			if _, ok := (*rv1).(float64); !ok {
				return hostFault(t, "%s declares D but returned %T", method.FullSignature(), *rv1)
			}
		}
		return nil

	case "I", "F", "Z", "B", "C", "S":
		if rv1 == nil {
			return hostFault(t, "%s declares %s but returned no value", method.FullSignature(), descriptor)
		}
		if rv2 != nil {
			return hostFault(t, "%s declares a single-slot return but rv2 is present", method.FullSignature())
		}
		return checkNarrowPrimitive(t, method, descriptor, *rv1)

	default:
		// Reference type: null or an instance castable to the declared
		// class, using the method's class loader first and the bootstrap
		// loader as fallback.
		if rv1 == nil {
			return hostFault(t, "%s declares a reference return but rv1 is absent", method.FullSignature())
		}
		if rv2 != nil {
			return hostFault(t, "%s declares a single-slot return but rv2 is present", method.FullSignature())
		}
		if *rv1 == nil {
			return nil
		}
		return checkReferenceReturn(t, method, descriptor, *rv1)
	}
}

func checkNarrowPrimitive(t *Thread, method Method, descriptor string, v Value) error {
	switch descriptor {
	case "I":
		if _, ok := v.(int32); !ok {
			return hostFault(t, "%s declares I but returned %T", method.FullSignature(), v)
		}
	case "F":
		if _, ok := v.(float32); !ok {
			return hostFault(t, "%s declares F but returned %T", method.FullSignature(), v)
		}
	case "Z":
		n, ok := v.(int32)
		if !ok || (n != 0 && n != 1) {
			return hostFault(t, "%s declares Z but returned %#v", method.FullSignature(), v)
		}
	case "B":
		n, ok := v.(int32)
		if !ok || n < -128 || n > 127 {
			return hostFault(t, "%s declares B but returned out-of-range value %#v", method.FullSignature(), v)
		}
	case "C":
		n, ok := v.(int32)
		if !ok || n < 0 || n > 0xFFFF {
			return hostFault(t, "%s declares C but returned out-of-range value %#v", method.FullSignature(), v)
		}
	case "S":
		n, ok := v.(int32)
		if !ok || n < -32768 || n > 32767 {
			return hostFault(t, "%s declares S but returned out-of-range value %#v", method.FullSignature(), v)
		}
	}
	return nil
}

func checkReferenceReturn(t *Thread, method Method, descriptor string, v Value) error {
	declared := stripDescriptor(descriptor)

	loader := method.Class().Loader()
	declaredClass := loader.GetResolvedClass(declared)
	if declaredClass == nil && t.bootstrap != nil {
		declaredClass = t.bootstrap.GetResolvedClass(declared)
	}
	if declaredClass == nil {
		// The declared class itself hasn't resolved; nothing to check
		// against yet. Not a fault: the descriptor may name a class the
		// interpreter never had reason to force-resolve.
		return nil
	}

	obj, ok := v.(ClassOf)
	if !ok {
		return hostFault(t, "%s declares reference type %s but returned %T, which has no JVM class", method.FullSignature(), declared, v)
	}
	if !obj.JVMClass().IsCastable(declaredClass) {
		return hostFault(t, "%s declares reference type %s but returned an instance of %s", method.FullSignature(), declared, obj.JVMClass().TypeName())
	}
	return nil
}

// stripDescriptor strips the "L...;" reference-descriptor wrapper, or
// leaves the string as-is (e.g. an array descriptor or a bare class name)
// when there's nothing to strip.
func stripDescriptor(descriptor string) string {
	if len(descriptor) >= 2 && descriptor[0] == 'L' && descriptor[len(descriptor)-1] == ';' {
		return descriptor[1 : len(descriptor)-1]
	}
	return descriptor
}
