// Package itinerary models the editable part of an order: steps, stops,
// actions and transit items, each carrying a Revision that says whether the row
// is stable (driver visible), a shadow overriding a stable row, or a pending
// addition made after submission.
//
// A Graph holds every row of one order, indexes shadows by the id of the row
// they override and records inserts, updates and deletes so a repository can
// flush them inside the caller's transaction.
//
// Children always reference the id of an anchor row, never the id of a shadow:
// a stop's StepID and an action's StopID and TransitItemID are anchor ids.
package itinerary
