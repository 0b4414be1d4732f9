/*
errors.go - Centralized error types for the holiday engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Region and calendar packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Argument errors - Malformed timezone, date or locale input
  2. Composition errors - Two holidays with the same key in one result
  3. Registry errors - Unknown or duplicate region identifiers
  4. Definition errors - Invalid data-defined calendars, or a calendar
     still extended by others

POLICY:
  Out-of-range years are NOT errors. Guards simply yield fewer holidays.
  Unknown locales are NOT errors. Name lookup falls back to DefaultLocale.

SEE ALSO:
  - set.go: Raises DuplicateKeyError
  - registry.go: Raises ErrUnknownRegion / ErrDuplicateRegion
  - factory/calendar.go: Wraps ErrInvalidDefinition
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidArgument is returned when date construction inputs are malformed,
	// most commonly an unknown timezone identifier.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateKey is returned when a rule adds a key already present in
	// the result. This is a bug in a provider, never a runtime condition.
	ErrDuplicateKey = errors.New("duplicate holiday key")

	// ErrUnknownRegion is returned when no provider is registered for an identifier.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrDuplicateRegion is returned when registering an identifier twice.
	ErrDuplicateRegion = errors.New("region already registered")

	// ErrCalendarNotFound is returned when a stored calendar definition doesn't exist.
	ErrCalendarNotFound = errors.New("calendar not found")

	// ErrInvalidDefinition is returned when a calendar definition fails validation.
	ErrInvalidDefinition = errors.New("invalid calendar definition")

	// ErrCalendarInUse is returned when deleting a calendar other calendars extend.
	ErrCalendarInUse = errors.New("calendar is extended by other calendars")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidArgumentError describes which input could not be used.
type InvalidArgumentError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidArgumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *InvalidArgumentError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidArgument}
	}
	return []error{ErrInvalidArgument, e.Err}
}

// DuplicateKeyError identifies the colliding key.
type DuplicateKeyError struct {
	Region string
	Year   int
	Key    string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate holiday key %q in %s %d", e.Key, e.Region, e.Year)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrInvalidDefinition) ||
		errors.Is(err, ErrDuplicateRegion) ||
		errors.Is(err, ErrCalendarInUse)
}

// IsNotFound returns true if the error indicates a missing region or calendar.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownRegion) ||
		errors.Is(err, ErrCalendarNotFound)
}
