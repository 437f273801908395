package gcal

import (
	"fmt"
	"strings"
)

// Transparency is the free/busy status advertised for the event.
type Transparency int

const (
	TransparencyUnset Transparency = iota
	Available
	Busy
	Blocking
)

func (t Transparency) valid() bool {
	return t == Available || t == Busy || t == Blocking
}

// Value rendered in the crm parameter; empty when unset or invalid.
func (t Transparency) String() string {
	switch t {
	case Available:
		return "AVAILABLE"
	case Busy:
		return "BUSY"
	case Blocking:
		return "BLOCKING"
	}
	return ""
}

// ParseTransparency maps "available", "busy" or "blocking" (any case).
func ParseTransparency(s string) (Transparency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AVAILABLE":
		return Available, nil
	case "BUSY":
		return Busy, nil
	case "BLOCKING":
		return Blocking, nil
	}
	return TransparencyUnset, fmt.Errorf("%q: %w", s, ErrInvalidTransparency)
}
