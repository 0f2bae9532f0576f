package calculation

import "time"

// seedFunc returns a pseudo-random seed (override for deterministic sweep tests).
var seedFunc = func() int64 { return time.Now().UnixNano() }

// SetSeedFunc overrides the seed provider (use only in tests).
func SetSeedFunc(f func() int64) { seedFunc = f }

// NewSeed returns a fresh seed for callers that want to report the seed they ran with.
func NewSeed() int64 { return seedFunc() }
