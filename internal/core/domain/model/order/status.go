package order

import (
	"fmt"

	"multistop/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	Draft ──> Pending ──> Accepted ──> AtPickup ──> Collected ──> AtDelivery ──> Delivered
//	  │          │                                                      │
//	  └──────────┴──> Cancelled                                 Failed <┘
//
// Pending is the only status that may carry an offer.
type Status int

const (
	Unknown Status = iota
	Draft
	Pending
	Accepted
	AtPickup
	Collected
	AtDelivery
	Delivered
	Failed
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Draft:      "DRAFT",
		Pending:    "PENDING",
		Accepted:   "ACCEPTED",
		AtPickup:   "AT_PICKUP",
		Collected:  "COLLECTED",
		AtDelivery: "AT_DELIVERY",
		Delivered:  "DELIVERED",
		Failed:     "FAILED",
		Cancelled:  "CANCELLED",
	}
}

// Validate rejects Unknown and values outside the declared statuses.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// ParseStatus maps the wire name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// IsTerminal reports whether no further transitions or edits are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Failed || s == Cancelled
}

// IsSubmitted reports whether the order left Draft, so its itinerary has a
// stable baseline that edits must shadow.
func (s Status) IsSubmitted() bool {
	return s != Draft && s != Unknown
}

// Submit returns the status that follows submission.
// Only Draft orders can be submitted.
func (s Status) Submit() (Status, error) {
	if s != Draft {
		return Unknown, errs.NewInvalidTransitionError("order", fmt.Sprintf("%s cannot be submitted", s))
	}
	return Pending, nil
}

// Accept returns the status that follows a driver accepting the offer.
// Only Pending orders can be accepted.
func (s Status) Accept() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewInvalidTransitionError("order", fmt.Sprintf("%s cannot be accepted", s))
	}
	return Accepted, nil
}
