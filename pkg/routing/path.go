package routing

import "github.com/samber/lo"

// ReconstructPath walks prev backwards from dest and returns the ids in
// travel order. A dest with no predecessor yields [dest]; callers must check
// that the first element is the expected source. The walk stops if a node
// repeats.
func ReconstructPath(prev map[string]string, dest string) []string {
	path := []string{dest}
	seen := map[string]bool{dest: true}
	for cur := dest; ; {
		p, ok := prev[cur]
		if !ok || seen[p] {
			break
		}
		seen[p] = true
		path = append(path, p)
		cur = p
	}
	return lo.Reverse(path)
}
