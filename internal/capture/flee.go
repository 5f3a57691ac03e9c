package capture

// FleePolicy is the caller-facing retry rule: after MaxAttempts failed throws
// the wild creature flees. It is enforced at the flow layer, never inside the
// probability roll.
type FleePolicy struct {
	MaxAttempts int
}

// DefaultFleePolicy allows three throws per encounter.
var DefaultFleePolicy = FleePolicy{MaxAttempts: 3}

// Fled reports whether the encounter is over after the given failed attempt
// number (1-based).
func (p FleePolicy) Fled(attempt int) bool {
	return attempt >= p.MaxAttempts
}
