package predict

import "sort"

// rankIndices orders candidate indices by descending score. The sort is
// stable over an ascending-index initial order, so equal scores resolve to
// the earlier candidate.
func rankIndices(scores []float32) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}
