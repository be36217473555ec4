// Package common holds the error kinds shared by every stage of the draft
// engine. Call sites wrap them with context; callers test with errors.Is.
package common

import "errors"

var (
	// ErrConfiguration marks invalid league settings: negative starter
	// counts, bad pick lists, or a combination table that was filtered
	// down to nothing before the draft ended. Fatal before any turn runs.
	ErrConfiguration = errors.New("configuration error")

	// ErrDataIntegrity marks bad projection data: missing fields, unknown
	// positions, non-positive ADP deviations, or a player referenced twice.
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrSelection marks an operator pick that is not one of the displayed
	// candidates. Recoverable; state is never mutated when it is returned.
	ErrSelection = errors.New("selection error")
)
