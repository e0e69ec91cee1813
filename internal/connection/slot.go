package connection

import "github.com/mesh-intelligence/tableland/pkg/types"

// slot holds one prepared resource or the reason it is absent.
type slot[T any] struct {
	value   T
	present bool
	reason  error
}

func (s *slot[T]) set(v T) {
	s.value = v
	s.present = true
	s.reason = nil
}

func (s *slot[T]) absent(resource, reason string, cause error) {
	var zero T
	s.value = zero
	s.present = false
	s.reason = &types.ConfigError{Resource: resource, Reason: reason, Cause: cause}
}

func (s *slot[T]) get() (T, error) {
	if !s.present {
		var zero T
		if s.reason == nil {
			return zero, types.ErrNotReady
		}
		return zero, s.reason
	}
	return s.value, nil
}
