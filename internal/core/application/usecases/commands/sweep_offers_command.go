package commands

import (
	"errors"
	"time"

	"multistop/internal/pkg/errs"
	"multistop/internal/pkg/guard"
)

var ErrSweepOffersCommandIsNotConstructed = errors.New(
	"SweepOffersCommand must be created via NewSweepOffersCommand constructor",
)

// SweepOffersCommand scans for offers whose window closed before now and
// for PENDING orders without an offer. Limit bounds each scan.
type SweepOffersCommand struct { //nolint:recvcheck //using for validation
	now   time.Time
	limit int
	guard guard.ConstructorGuard
}

// NewSweepOffersCommand creates a sweep evaluated at now.
// Returns an error if limit is not positive.
func NewSweepOffersCommand(now time.Time, limit int) (SweepOffersCommand, error) {
	if now.IsZero() {
		return SweepOffersCommand{}, errs.NewValueIsRequiredError("now")
	}
	if limit <= 0 {
		return SweepOffersCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return SweepOffersCommand{now: now, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSweepOffersCommandIsNotConstructed if validation fails.
func (c SweepOffersCommand) Validate() error {
	return c.guard.Validate(ErrSweepOffersCommandIsNotConstructed)
}

// Now returns the instant offers are compared against.
func (c SweepOffersCommand) Now() time.Time {
	return c.now
}

// Limit returns the maximum number of orders per scan.
func (c SweepOffersCommand) Limit() int {
	return c.limit
}
