package graph

// propTag is the wire-format tag byte for a PropertyValue variant. Tag
// bytes are part of the on-disk compatibility guarantee: once released, a
// tag is never reassigned to a different variant. New variants take new
// tags.
type propTag byte

const (
	tagNull propTag = iota
	tagString
	tagInt
	tagFloat
	tagBool
	tagBytes
	tagStringList
	tagIntList
)

// valueKind identifies which field of PropertyValue is meaningful.
type valueKind int

const (
	kindNull valueKind = iota
	kindString
	kindInt
	kindFloat
	kindBool
	kindBytes
	kindStringList
	kindIntList
)

// PropertyValue is the typed value held at one key of a PropertyMap. The
// zero value is Null. Construct one with the String/Int/Float/Bool/Bytes/
// StringList/IntList functions below.
type PropertyValue struct {
	kind       valueKind
	strVal     string
	intVal     int64
	floatVal   float64
	boolVal    bool
	bytesVal   []byte
	strList    []string
	intList    []int64
}

// NullValue is the absent/untyped property value.
func NullValue() PropertyValue { return PropertyValue{kind: kindNull} }

// StringValue wraps a UTF-8 string property value.
func StringValue(s string) PropertyValue { return PropertyValue{kind: kindString, strVal: s} }

// IntValue wraps a signed 64-bit integer property value.
func IntValue(i int64) PropertyValue { return PropertyValue{kind: kindInt, intVal: i} }

// FloatValue wraps an IEEE-754 double property value.
func FloatValue(f float64) PropertyValue { return PropertyValue{kind: kindFloat, floatVal: f} }

// BoolValue wraps a boolean property value.
func BoolValue(b bool) PropertyValue { return PropertyValue{kind: kindBool, boolVal: b} }

// BytesValue wraps an opaque byte-slice property value. The slice is
// copied so later mutation by the caller cannot affect the stored value.
func BytesValue(b []byte) PropertyValue {
	cp := make([]byte, len(b))
	copy(cp, b)
	return PropertyValue{kind: kindBytes, bytesVal: cp}
}

// StringListValue wraps a list-of-strings property value.
func StringListValue(ss []string) PropertyValue {
	cp := make([]string, len(ss))
	copy(cp, ss)
	return PropertyValue{kind: kindStringList, strList: cp}
}

// IntListValue wraps a list-of-ints property value.
func IntListValue(is []int64) PropertyValue {
	cp := make([]int64, len(is))
	copy(cp, is)
	return PropertyValue{kind: kindIntList, intList: cp}
}

// IsNull reports whether the value is absent/untyped.
func (v PropertyValue) IsNull() bool { return v.kind == kindNull }

func (v PropertyValue) tag() propTag {
	switch v.kind {
	case kindString:
		return tagString
	case kindInt:
		return tagInt
	case kindFloat:
		return tagFloat
	case kindBool:
		return tagBool
	case kindBytes:
		return tagBytes
	case kindStringList:
		return tagStringList
	case kindIntList:
		return tagIntList
	default:
		return tagNull
	}
}

// equal compares two property values by kind and scalar/slice contents.
func (v PropertyValue) equal(o PropertyValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case kindNull:
		return true
	case kindString:
		return v.strVal == o.strVal
	case kindInt:
		return v.intVal == o.intVal
	case kindFloat:
		return v.floatVal == o.floatVal
	case kindBool:
		return v.boolVal == o.boolVal
	case kindBytes:
		return bytesEqual(v.bytesVal, o.bytesVal)
	case kindStringList:
		if len(v.strList) != len(o.strList) {
			return false
		}
		for i := range v.strList {
			if v.strList[i] != o.strList[i] {
				return false
			}
		}
		return true
	case kindIntList:
		if len(v.intList) != len(o.intList) {
			return false
		}
		for i := range v.intList {
			if v.intList[i] != o.intList[i] {
				return false
			}
		}
		return true
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
