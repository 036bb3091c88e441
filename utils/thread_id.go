package utils

// PairThreadID derives the identifier of the private thread between two
// users: the lexicographically sorted concatenation of both ids. Either
// participant computes the same value without a lookup, so there is at
// most one thread per unordered pair.
func PairThreadID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}
