package model

// Optional carries a value reported by a capability that may be missing on the host.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None reports a missing capability.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it was present.
func (o Optional[T]) Get() (T, bool) { return o.value, o.ok }

// IsPresent reports whether the capability produced a value.
func (o Optional[T]) IsPresent() bool { return o.ok }

// OrElse returns the value or the supplied sentinel when the capability is missing.
func (o Optional[T]) OrElse(sentinel T) T {
	if !o.ok {
		return sentinel
	}
	return o.value
}
