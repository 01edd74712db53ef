// Package flow holds the small state primitives shared by every screen.
package flow

// Phase is the tag of a Remote value.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Remote is the state of one remotely fetched resource:
// Idle | Loading | Loaded(data) | Failed(reason).
// Fields are unexported so only the constructors can build one, which keeps
// combinations like "loading with an error" out of reach.
type Remote[T any] struct {
	phase  Phase
	data   T
	reason string
}

func Idle[T any]() Remote[T] { return Remote[T]{} }

func Loading[T any]() Remote[T] { return Remote[T]{phase: PhaseLoading} }

func Loaded[T any](data T) Remote[T] { return Remote[T]{phase: PhaseLoaded, data: data} }

func Failed[T any](reason string) Remote[T] { return Remote[T]{phase: PhaseFailed, reason: reason} }

func (r Remote[T]) Phase() Phase    { return r.phase }
func (r Remote[T]) IsLoading() bool { return r.phase == PhaseLoading }

// Data returns the payload and whether the resource is Loaded.
func (r Remote[T]) Data() (T, bool) {
	return r.data, r.phase == PhaseLoaded
}

// Reason is the user-facing failure text; empty unless Failed.
func (r Remote[T]) Reason() string { return r.reason }
