// Package utils has helpers for the nullable ids in API payloads, such as a
// post's like_id, which is null until the viewer likes it.
package utils

// Ptr returns a pointer to a copy of v, to fill a nullable field.
func Ptr[T any](v T) *T {
	return &v
}

// Lookup reads a nullable field in comma-ok form.
func Lookup[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
