// Package services contains stateless domain services of the dispatch engine:
// SLA priority classification, distance/ETA estimation and rider scoring.
// They hold no mutable state and take the clock reading as an explicit
// argument so results are deterministic and testable.
package services
