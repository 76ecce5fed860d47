// Package stores provides environment.Store back-ends beyond the default map:
// a bounded ristretto cache and a go-memdb table.
package stores
