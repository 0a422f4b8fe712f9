// Package textmetric provides the edit-distance computation used by the
// validator's Pedantic-mode "close alias" search (spec §4.4 step 1) and its
// enumeration-membership suggestion list (spec §4.4 step 4).
package textmetric

// Levenshtein returns the classic single-character insertion/deletion/
// substitution edit distance between a and b, operating on runes so that
// multi-byte UTF-8 data names and enumeration literals are measured
// correctly rather than by byte.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min(del, min(ins, sub))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
