// Package services holds the domain services that work across aggregates:
//   - ShadowResolver and SubtreeCloner decide where an edit is written
//   - VirtualStateBuilder renders the CLIENT and DRIVER views of an itinerary
//   - MergeEngine pushes or reverts pending changes
//   - OrderDispatcher selects the next driver to offer an order to
package services
