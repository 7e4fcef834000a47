// write.go implements the type-directed byte-image writer used for static variable initial
// images and interned literal constants: every multi-byte field is written little-endian,
// regardless of target architecture.
package types

import (
	"fmt"
	"math"
)

// ---------------------
// ----- functions -----
// ---------------------

// WriteImage renders v (of type t) into a byte buffer of exactly SizeOf(t, arch) bytes.
func WriteImage(v Value, t *Type, arch ArchSizes) ([]byte, error) {
	buf := make([]byte, SizeOf(t, arch))
	if err := writeInto(buf, 0, v, t, arch); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeInto(buf []byte, off int, v Value, t *Type, arch ArchSizes) error {
	switch t.Kind {
	case I8, U8:
		buf[off] = byte(v.Int64())
	case I16, U16:
		putLE(buf[off:], uint64(v.Int64()), 2)
	case I32, U32:
		putLE(buf[off:], uint64(v.Int64()), 4)
	case I64, U64:
		putLE(buf[off:], uint64(v.Int64()), 8)
	case F32:
		putLE(buf[off:], uint64(math.Float32bits(float32(v.Float))), 4)
	case F64:
		putLE(buf[off:], math.Float64bits(v.Float), 8)
	case Bool:
		if v.Bool {
			buf[off] = 1
		}
	case Pointer:
		putLE(buf[off:], v.Ptr, arch.AddressSize/8)
	case Array:
		putLE(buf[off:], v.ArrPtr, arch.AddressSize/8)
		putLE(buf[off+arch.AddressSize/8:], v.ArrLen, arch.AddressSize/8)
	case StaticArray:
		elemSize := SizeOf(t.Elem, arch)
		if len(v.Elems) != t.Length {
			return fmt.Errorf("static array constant has %d elements, want %d", len(v.Elems), t.Length)
		}
		for i1, e := range v.Elems {
			if err := writeInto(buf, off+i1*elemSize, e, t.Elem, arch); err != nil {
				return err
			}
		}
	case Struct, Union:
		if len(v.Members) != len(t.Members) {
			return fmt.Errorf("struct constant has %d members, want %d", len(v.Members), len(t.Members))
		}
		for i1, m := range t.Members {
			mo := MemberOffset(t, i1, arch)
			if err := writeInto(buf, off+mo, v.Members[i1], m.Type, arch); err != nil {
				return err
			}
		}
	case Enum:
		return writeInto(buf, off, v, t.Backing, arch)
	default:
		return fmt.Errorf("cannot write a byte image for type %s", t.Kind)
	}
	return nil
}

func putLE(buf []byte, v uint64, n int) {
	for i1 := 0; i1 < n; i1++ {
		buf[i1] = byte(v >> uint(8*i1))
	}
}
