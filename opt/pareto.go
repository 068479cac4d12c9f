package opt

import "sort"

// ParetoEfficient returns the indices of the non-dominated rows of points,
// maximizing every objective. A point is dominated when another point is at
// least as good in all objectives and strictly better in one.
func ParetoEfficient(points [][]float64) []int {
	var front []int
	for i, p := range points {
		dominated := false
		for j, q := range points {
			if i == j {
				continue
			}
			if dominates(q, p) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, i)
		}
	}
	return front
}

// dominates reports whether a dominates b under maximization.
func dominates(a, b []float64) bool {
	strictly := false
	for k := range a {
		if a[k] < b[k] {
			return false
		}
		if a[k] > b[k] {
			strictly = true
		}
	}
	return strictly
}

// Hypervolume computes the area dominated by a set of two-objective points
// relative to a reference point, maximizing both objectives. Points not
// dominating the reference contribute nothing.
func Hypervolume(points [][]float64, ref []float64) float64 {
	kept := make([][]float64, 0, len(points))
	for _, p := range points {
		if p[0] > ref[0] && p[1] > ref[1] {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return 0
	}
	// Sweep from the best first objective down; each point adds the strip
	// between its second objective and the best second objective seen so far.
	sort.Slice(kept, func(i, j int) bool {
		if kept[i][0] != kept[j][0] {
			return kept[i][0] > kept[j][0]
		}
		return kept[i][1] > kept[j][1]
	})
	var volume float64
	level := ref[1]
	for _, p := range kept {
		if p[1] > level {
			volume += (p[0] - ref[0]) * (p[1] - level)
			level = p[1]
		}
	}
	return volume
}
