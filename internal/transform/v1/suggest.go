package v1

import "strings"

// suggest returns the closest known tag name to got (by edit distance),
// used to build the "did you mean" note for UnknownComponent errors
// (spec §4.3), grounded on css_ast.MaybeCorrectDeclarationTypo's
// typo-correction convention in the teacher.
func suggest(got string, known []string) (string, bool) {
	best := ""
	bestDist := 1 << 30
	for _, k := range known {
		d := editDistance(strings.ToLower(got), strings.ToLower(k))
		if d < bestDist {
			bestDist = d
			best = k
		}
	}
	// Only offer a suggestion when it's plausibly a typo, not an unrelated word.
	if bestDist <= 3 && bestDist < len(got) {
		return best, true
	}
	return "", false
}

func editDistance(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}
