// Package order holds the Order aggregate: its status state machine, the
// assignment mode that constrains dispatch, and the single active offer.
package order
