package domain

// Store is the unit-of-work surface the services operate through. Inside
// WithTransaction every repository returned by the scoped store shares one
// database transaction; a nil return commits, any error rolls back and is
// propagated to the caller unchanged.
type Store interface {
	User() UserRepository
	Account() AccountRepository
	Transfer() TransferRepository
	WithTransaction(fn func(Store) error) error
}
