// Package kernel provides the shared value objects used across the domain model:
// UUID identifiers and geographic Location with great-circle distance.
package kernel
