// Package kernel contains shared value objects used across domain aggregates.
// Currently this is the geographic Location value object with validated
// coordinates and haversine distance calculation.
package kernel
