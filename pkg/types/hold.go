package types

import "fmt"

// Hold names the quantity kept fixed while another is derived.
type Hold string

// Hold values. The zero value selects the default of each operation.
const (
	HoldInoc  Hold = "inoc"
	HoldTemp  Hold = "temp"
	HoldHours Hold = "hours"
)

// ParseHold converts s into a Hold. An empty string yields the zero Hold.
func ParseHold(s string) (Hold, error) {
	h := Hold(s)
	if err := h.Validate(); err != nil {
		return "", err
	}
	return h, nil
}

// Validate returns ErrInvalidHold for values other than the Hold constants
// and the empty string.
func (h Hold) Validate() error {
	switch h {
	case "", HoldInoc, HoldTemp, HoldHours:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidHold, string(h))
}

// or returns h, or def when h is empty.
func (h Hold) or(def Hold) Hold {
	if h == "" {
		return def
	}
	return h
}
