// Package order contains the Order aggregate root and its lifecycle state
// machine. Orders are created by the manual intake flow, bound to riders by
// the assignment executor, and progressed through fulfillment transitions.
package order
