package util

// Ptr returns a pointer to the given value.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the value pointed to by p, or the zero value if p is nil.
func Deref[T any](p *T) T {
	if p != nil {
		return *p
	}
	var zero T
	return zero
}

// DerefOr returns the value pointed to by p, or fallback if p is nil.
// Option flags use *bool so that "unset" and "explicitly false" stay
// distinguishable; DerefOr supplies the documented default for unset.
func DerefOr[T any](p *T, fallback T) T {
	if p != nil {
		return *p
	}
	return fallback
}
