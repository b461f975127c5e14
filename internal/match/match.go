// Package match provides the three-state result shared by every matcher
package match

// Kind identifies which of the three states a Match is in.
type Kind int

const (
	// KindNone means no rule matched.
	KindNone Kind = iota
	// KindIgnore means the deciding rule excludes the path.
	KindIgnore
	// KindWhitelist means the deciding rule re-includes the path.
	KindWhitelist
)

func (k Kind) String() string {
	switch k {
	case KindIgnore:
		return "ignore"
	case KindWhitelist:
		return "whitelist"
	default:
		return "none"
	}
}

// Match is the outcome of matching a path, carrying the evidence T of the
// rule that decided it.
type Match[T any] struct {
	kind  Kind
	value T
}

// None returns a match where nothing matched.
func None[T any]() Match[T] {
	return Match[T]{}
}

// Ignored returns an ignore match with the given evidence.
func Ignored[T any](v T) Match[T] {
	return Match[T]{kind: KindIgnore, value: v}
}

// Whitelisted returns a whitelist match with the given evidence.
func Whitelisted[T any](v T) Match[T] {
	return Match[T]{kind: KindWhitelist, value: v}
}

// Kind returns the state of the match.
func (m Match[T]) Kind() Kind { return m.kind }

// IsNone reports whether nothing matched.
func (m Match[T]) IsNone() bool { return m.kind == KindNone }

// IsIgnore reports whether the path should be ignored.
func (m Match[T]) IsIgnore() bool { return m.kind == KindIgnore }

// IsWhitelist reports whether the path was explicitly re-included.
func (m Match[T]) IsWhitelist() bool { return m.kind == KindWhitelist }

// Value returns the evidence. It is the zero value for a None match.
func (m Match[T]) Value() T { return m.value }

// Invert swaps Ignore and Whitelist. None stays None.
func (m Match[T]) Invert() Match[T] {
	switch m.kind {
	case KindIgnore:
		m.kind = KindWhitelist
	case KindWhitelist:
		m.kind = KindIgnore
	}
	return m
}

// Or returns m unless it is None, in which case other is returned.
func (m Match[T]) Or(other Match[T]) Match[T] {
	if m.IsNone() {
		return other
	}
	return m
}

// Map converts the evidence of m, keeping its state.
func Map[T, U any](m Match[T], f func(T) U) Match[U] {
	if m.IsNone() {
		return None[U]()
	}
	return Match[U]{kind: m.kind, value: f(m.value)}
}
