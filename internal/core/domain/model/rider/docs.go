// Package rider contains the Rider aggregate root with its availability
// status machine and concurrent order-carrying capacity bookkeeping.
package rider
