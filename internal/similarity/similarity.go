package similarity

// Threshold is the score above which two names are considered a likely typo
// of one another.
const Threshold = 0.7

// Score returns (maxLen - distance) / maxLen where distance is the Levenshtein
// distance between a and b. Two empty strings score 1.0.
func Score(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}
	return float64(maxLen-distance(ra, rb)) / float64(maxLen)
}

// Distance returns the Levenshtein distance between a and b, counting
// insertions, deletions and substitutions at cost 1.
func Distance(a, b string) int {
	return distance([]rune(a), []rune(b))
}

// Similar reports whether a and b score strictly above Threshold.
func Similar(a, b string) bool {
	return Score(a, b) > Threshold
}

func distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Two rolling rows of the edit matrix.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
