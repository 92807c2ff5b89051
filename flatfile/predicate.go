package flatfile

// Predicate is a pure test evaluated against one row during a scan. It is
// invoked once per visited row in traversal order and must not mutate the
// store or retain the row view beyond the call.
type Predicate interface {
	Match(s *Store, r *Row) bool
}

// EmptyTest matches any row available for insertion.
type EmptyTest struct{}

func (EmptyTest) Match(s *Store, r *Row) bool {
	return r.Status == StatusEmpty
}

// KeyMatchTest matches occupied rows whose key equals Key according to the
// store's comparator. Comparison itself is always delegated: the store never
// interprets key bytes on its own.
type KeyMatchTest struct {
	Key []byte
}

func (p KeyMatchTest) Match(s *Store, r *Row) bool {
	return r.Status == StatusOccupied && s.compare(p.Key, r.Key) == 0
}

// OccupiedTest matches any live row, regardless of key.
type OccupiedTest struct{}

func (OccupiedTest) Match(s *Store, r *Row) bool {
	return r.Status == StatusOccupied
}
