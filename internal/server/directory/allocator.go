// Package directory implements the public user directory: splitting a page
// budget between username and display-name matches, and paging the merged result.
package directory

// SearchLimits is how many results to draw from each of two candidate pools.
type SearchLimits struct {
	A              int
	B              int
	TotalAvailable int
}

// Allocate splits budget between two pools holding countA and countB matches.
//
// The split is proportional to the pool sizes, rounded down for A. When one
// pool is allotted more than it holds, the excess moves to the other pool.
// The result never exceeds budget, and never exceeds a pool's own count.
func Allocate(countA, countB, budget int) SearchLimits {
	countA = max(countA, 0)
	countB = max(countB, 0)

	total := countA + countB
	if total == 0 || budget <= 0 {
		return SearchLimits{}
	}

	available := min(budget, total)

	// floor(countA/total * available), kept in integers
	limitA := countA * available / total
	limitB := available - limitA

	if limitA > countA {
		limitB += limitA - countA
		limitA = countA
	} else if limitB > countB {
		limitA += limitB - countB
		limitB = countB
	}

	return SearchLimits{A: limitA, B: limitB, TotalAvailable: available}
}
