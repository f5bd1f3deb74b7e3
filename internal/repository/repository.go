// Package repository defines data access contracts for file batches and
// reconciliation reports. No business logic here, strictly storage
// operations over immutable snapshots.
package repository

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
