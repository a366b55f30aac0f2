package order

import (
	"fmt"

	"multistop/internal/pkg/errs"
)

// AssignmentMode restricts which drivers may be offered the order.
type AssignmentMode int

const (
	UnknownMode AssignmentMode = iota
	// Global offers to any eligible driver.
	Global
	// Internal offers only to drivers of the client's company.
	Internal
	// Target offers only to one named driver.
	Target
)

func getModeStrings() map[AssignmentMode]string {
	return map[AssignmentMode]string{
		UnknownMode: "UNKNOWN",
		Global:      "GLOBAL",
		Internal:    "INTERNAL",
		Target:      "TARGET",
	}
}

// String returns the wire name of the mode.
func (m AssignmentMode) String() string {
	if str, ok := getModeStrings()[m]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate rejects UnknownMode and values outside the declared modes.
func (m AssignmentMode) Validate() error {
	if m < Global || m > Target {
		return errs.NewValueIsInvalidErrorWithCause("assignment mode is invalid", fmt.Errorf("%d is not a valid mode", m))
	}
	return nil
}

// ParseAssignmentMode maps the wire name back to an AssignmentMode.
func ParseAssignmentMode(s string) (AssignmentMode, error) {
	for mode, str := range getModeStrings() {
		if str == s && mode != UnknownMode {
			return mode, nil
		}
	}
	return UnknownMode, errs.NewValueIsInvalidErrorWithCause("assignment mode is invalid", fmt.Errorf("%q is not a valid mode", s))
}
