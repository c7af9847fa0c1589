// Package services holds the campaign lifecycle, recipient enrollment,
// event aggregation and directory sync logic. Every service talks to
// persistence through the store.Store interface only, so the in-memory
// and relational backends stay interchangeable.
package services

import (
	"time"
)

// nowFunc is swapped in tests that need deterministic timestamps.
var nowFunc = time.Now
