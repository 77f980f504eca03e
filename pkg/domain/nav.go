package domain

import "encoding/json"

// Nav holds a navigation field: a related record or a reverse collection that
// the store resolves by foreign key. A Nav remembers whether it appeared in a
// decoded document at all, so an explicit JSON null is distinguishable from an
// omitted field. Unset navigations are dropped from encoded output via omitzero.
type Nav[T any] struct {
	value T
	set   bool
}

// Some returns a populated navigation.
func Some[T any](value T) Nav[T] {
	return Nav[T]{value: value, set: true}
}

// Present reports whether the navigation was populated, including by an explicit null.
func (n Nav[T]) Present() bool { return n.set }

// Get returns the navigation value and whether it was populated.
func (n Nav[T]) Get() (T, bool) { return n.value, n.set }

// IsZero lets encoding/json omit unset navigations.
func (n Nav[T]) IsZero() bool { return !n.set }

// MarshalJSON encodes the wrapped value.
func (n Nav[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.value)
}

// UnmarshalJSON marks the navigation present, even for null.
func (n *Nav[T]) UnmarshalJSON(data []byte) error {
	n.set = true
	var zero T
	n.value = zero
	if string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, &n.value)
}
