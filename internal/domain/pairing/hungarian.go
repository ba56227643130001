package pairing

import "math"

// Kuhn-Munkres assignment on a rectangular cost matrix, potentials
// formulation, O(rows * cols * min(rows, cols)).
//
// minCostAssignment expects rows <= cols and returns, for each row, the
// column it is assigned to. The returned assignment minimizes total
// cost over all one-to-one assignments of every row. Callers wanting a
// maximum-weight matching negate their weights first.
func minCostAssignment(cost [][]float64) []int {
	rows := len(cost)
	if rows == 0 {
		return nil
	}
	cols := len(cost[0])

	// 1-based potentials over rows (u) and columns (v). matched[j]
	// holds the row currently assigned to column j, 0 for none.
	u := make([]float64, rows+1)
	v := make([]float64, cols+1)
	matched := make([]int, cols+1)
	way := make([]int, cols+1)

	for i := 1; i <= rows; i++ {
		// Grow an alternating tree from row i until a free column is
		// found, adjusting potentials by the minimum slack each step.
		matched[0] = i
		j0 := 0
		minSlack := make([]float64, cols+1)
		used := make([]bool, cols+1)
		for j := range minSlack {
			minSlack[j] = math.Inf(1)
		}

		for {
			used[j0] = true
			i0 := matched[j0]
			j1 := 0
			delta := math.Inf(1)

			for j := 1; j <= cols; j++ {
				if used[j] {
					continue
				}
				slack := cost[i0-1][j-1] - u[i0] - v[j]
				if slack < minSlack[j] {
					minSlack[j] = slack
					way[j] = j0
				}
				if minSlack[j] < delta {
					delta = minSlack[j]
					j1 = j
				}
			}

			for j := 0; j <= cols; j++ {
				if used[j] {
					u[matched[j]] += delta
					v[j] -= delta
				} else {
					minSlack[j] -= delta
				}
			}

			j0 = j1
			if matched[j0] == 0 {
				break
			}
		}

		// Augment along the alternating path back to the root.
		for j0 != 0 {
			j1 := way[j0]
			matched[j0] = matched[j1]
			j0 = j1
		}
	}

	assignment := make([]int, rows)
	for j := 1; j <= cols; j++ {
		if matched[j] > 0 {
			assignment[matched[j]-1] = j - 1
		}
	}
	return assignment
}
