// Package testutil holds shared helpers for tests.
package testutil

import "time"

// Constants for timing out operations in tests. Wait for the longest
// duration you can tolerate, poll at the fastest interval the operation
// allows.
const (
	WaitShort  = 10 * time.Second
	WaitMedium = 15 * time.Second
	WaitLong   = 25 * time.Second

	IntervalFast   = 25 * time.Millisecond
	IntervalMedium = 250 * time.Millisecond
	IntervalSlow   = time.Second
)
