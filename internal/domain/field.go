package domain

// Field is a tri-state patch value: omitted (leave unchanged), null (clear),
// or set to a value. The zero Field is omitted.
type Field[T any] struct {
	present bool
	null    bool
	value   T
}

// Omit returns a Field that is left out of the payload.
func Omit[T any]() Field[T] {
	return Field[T]{}
}

// Null returns a Field that is sent as an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{present: true, null: true}
}

// Set returns a Field carrying v.
func Set[T any](v T) Field[T] {
	return Field[T]{present: true, value: v}
}

// Present reports whether the field is part of the payload (null or value).
func (f Field[T]) Present() bool { return f.present }

// IsNull reports whether the field clears the stored value.
func (f Field[T]) IsNull() bool { return f.present && f.null }

// Value returns the carried value and whether one is set.
func (f Field[T]) Value() (T, bool) {
	if !f.present || f.null {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Wire returns the JSON representation of a present field: nil for null,
// the value otherwise.
func (f Field[T]) Wire() any {
	if f.null {
		return nil
	}
	return f.value
}

// ApplyField merges f into a nullable target and returns the result.
func ApplyField(target *string, f Field[string]) *string {
	switch {
	case !f.present:
		return target
	case f.null:
		return nil
	default:
		v := f.value
		return &v
	}
}

// DiffOptional computes the patch for an optional text field edited in a
// form. Trimmed input equal to the initial value is omitted, blank input is
// null, anything else is set.
func DiffOptional(initial *string, input string) Field[string] {
	cur := trim(input)
	if cur == "" {
		if initial == nil {
			return Omit[string]()
		}
		return Null[string]()
	}
	if initial != nil && trim(*initial) == cur {
		return Omit[string]()
	}
	return Set(cur)
}
