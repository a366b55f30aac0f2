// Package queries contains read operations. Queries never modify state:
// the view and route queries load aggregates through repositories, the
// listing queries read the tables directly with SQL.
package queries
