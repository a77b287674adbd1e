// Package kernel provides shared value objects used across the marketplace
// domain model. It contains the UUID identifier wrapper and currency rounding
// used by the order price breakdown.
//
// Kernel types are immutable value objects with validation, following
// Domain-Driven Design principles. They carry no business workflow of their
// own; aggregates in the order and review packages build on them.
package kernel
