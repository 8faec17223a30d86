// Package lox holds the few slice helpers samber/lo has no shape for.
package lox

// MapErr maps collection and stops at the first error.
func MapErr[T any, R comparable](collection []T, iteratee func(item T) (R, error)) ([]R, error) {
	var err error

	result := make([]R, len(collection))

	for i, item := range collection {
		result[i], err = iteratee(item)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// FilterAssociate indexes collection by the key callback returns, skipping
// items it rejects. Later items win on duplicate keys.
func FilterAssociate[T any, R comparable](collection []T, callback func(item T) (R, bool)) map[R]T {
	result := make(map[R]T, len(collection))

	for _, item := range collection {
		if r, ok := callback(item); ok {
			result[r] = item
		}
	}

	return result
}
