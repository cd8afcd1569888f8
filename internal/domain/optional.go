package domain

// Optional marks whether a patch field was supplied at all. A present
// zero value is different from an absent field.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Optional[T] { return Optional[T]{Value: v, Set: true} }

func None[T any]() Optional[T] { return Optional[T]{} }

// FromPtr treats nil as absent.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Optional[T]{}
	}
	return Some(*p)
}

func (o Optional[T]) Get() (T, bool) { return o.Value, o.Set }
