package ports

// CacheOwner is an object whose derived data is kept in a ComputationCache.
type CacheOwner interface {
	// OwnerKey identifies the owner in the cache.
	OwnerKey() string
	// Version changes whenever the owner's inputs change.
	Version() uint64
	// SubIdentities lists the partial contributions that make an entry whole, joined by
	// the cache delimiter. An empty list means the entry is whole after any write.
	SubIdentities() string
}

// ComputationCache memoizes derived data per owner.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ComputationCache interface {
	// Get returns the payload stored for owner if it is fresh, current and complete.
	Get(owner CacheOwner, subKey string) (any, bool)
	// Set stores payload and marks subKey complete for owner.
	Set(owner CacheOwner, payload any, subKey string)
	// Remove drops the entry of the owner with the given key.
	Remove(ownerKey string)
}
