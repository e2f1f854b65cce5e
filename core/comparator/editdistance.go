package comparator

// WeightedLevenshtein computes 1 - D/min(|s1|,|s2|) where D is the
// Wagner-Fischer edit distance over model. The result is not clamped to
// [0,1]: for very different-length inputs the raw value can go
// negative. Callers receive it unclamped; this is a known rough edge,
// not a bug to fix here.
func WeightedLevenshtein(s1, s2 string, model CostModel) float64 {
	if s1 == s2 {
		return 1.0
	}

	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 || len(r2) == 0 {
		if len(r1) == len(r2) {
			return 1.0
		}
		return 0.0
	}

	d := weightedDistance(r1, r2, model)
	minLen := len(r1)
	if len(r2) < minLen {
		minLen = len(r2)
	}
	return 1.0 - d/float64(minLen)
}

// weightedDistance runs the classical Wagner-Fischer DP over a single
// one-dimensional backing buffer for cache locality.
func weightedDistance(r1, r2 []rune, model CostModel) float64 {
	n, m := len(r1), len(r2)
	// row-major buffer of size (n+1)*(m+1), row i holds cells (i, 0..m)
	buf := make([]float64, (n+1)*(m+1))
	row := func(i int) []float64 { return buf[i*(m+1) : i*(m+1)+m+1] }

	row(0)[0] = 0
	for j := 1; j <= m; j++ {
		row(0)[j] = row(0)[j-1] + model.InsertDelete(r2[j-1])
	}
	for i := 1; i <= n; i++ {
		cur := row(i)
		prev := row(i - 1)
		cur[0] = prev[0] + model.InsertDelete(r1[i-1])
		for j := 1; j <= m; j++ {
			delCost := prev[j] + model.InsertDelete(r1[i-1])
			insCost := cur[j-1] + model.InsertDelete(r2[j-1])
			subCost := prev[j-1] + model.Substitute(r1[i-1], r2[j-1])

			best := delCost
			if insCost < best {
				best = insCost
			}
			if subCost < best {
				best = subCost
			}
			cur[j] = best
		}
	}
	return row(n)[m]
}

// OptimizedDistance is the unit-cost early-termination variant: after
// computing each diagonal cell (i,i), if its value
// already exceeds min(|s1|,|s2|)/2, that cell's value is returned
// immediately as a lower-bound proxy, not an exact distance. It is only
// meaningful for the caller's "could this possibly exceed 0.5 similarity"
// rejection test. maxDistance bounds how large a result the caller cares
// about; pass a non-positive value for no bound.
func OptimizedDistance(s1, s2 string, maxDistance int) int {
	r1, r2 := []rune(s1), []rune(s2)
	n, m := len(r1), len(r2)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	minLen := n
	if m < minLen {
		minLen = m
	}
	cutoff := minLen / 2

	buf := make([]int, (n+1)*(m+1))
	row := func(i int) []int { return buf[i*(m+1) : i*(m+1)+m+1] }

	for j := 0; j <= m; j++ {
		row(0)[j] = j
	}
	for i := 1; i <= n; i++ {
		cur := row(i)
		prev := row(i - 1)
		cur[0] = i
		for j := 1; j <= m; j++ {
			delCost := prev[j] + 1
			insCost := cur[j-1] + 1
			subCost := prev[j-1]
			if r1[i-1] != r2[j-1] {
				subCost++
			}

			best := delCost
			if insCost < best {
				best = insCost
			}
			if subCost < best {
				best = subCost
			}
			cur[j] = best
		}

		// Early termination only checks the diagonal (i == j); for
		// non-square inputs this skips some termination opportunities.
		// Intentional, not a bug.
		if i <= m && cur[i] > cutoff {
			return cur[i]
		}
	}

	result := row(n)[m]
	if maxDistance > 0 && result > maxDistance {
		return maxDistance
	}
	return result
}
