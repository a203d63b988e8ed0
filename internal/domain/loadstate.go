package domain

import "fmt"

// LoadState tracks whether a store has been hydrated from storage.
type LoadState int

const (
	// StateUninitialized means Load has not run yet.
	StateUninitialized LoadState = iota
	// StateLoaded means storage was read, possibly finding nothing.
	StateLoaded
	// StateError means storage held unreadable data or failed; the store
	// started empty and keeps writing through.
	StateError
)

func (s LoadState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// Hydrated reports whether Load has run, successfully or not.
func (s LoadState) Hydrated() bool {
	return s == StateLoaded || s == StateError
}

// MarshalText renders the state name in JSON responses.
func (s LoadState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (s *LoadState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "uninitialized":
		*s = StateUninitialized
	case "loaded":
		*s = StateLoaded
	case "error":
		*s = StateError
	default:
		return fmt.Errorf("unknown load state %q", text)
	}
	return nil
}
