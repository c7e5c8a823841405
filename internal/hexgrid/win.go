package hexgrid

// HasConnection reports whether team owns an unbroken chain of cells
// spanning the board: blue from the top row to the bottom row, red from
// the leftmost column to the rightmost. It runs a breadth-first traversal
// over owned neighbors from every owned cell on the starting edge. The
// board is at most 121 cells, so the call is cheap enough to run
// synchronously after each capture.
func HasConnection(g *Grid, team Team) bool {
	if team == TeamNone {
		return false
	}

	var starts []*Cell
	var atEnd func(*Cell) bool

	switch team {
	case TeamBlue:
		for i := range g.Cells {
			c := &g.Cells[i]
			if c.Owner == team && c.Row == 0 {
				starts = append(starts, c)
			}
		}
		atEnd = func(c *Cell) bool { return c.Row == g.Size-1 }
	case TeamRed:
		for i := range g.Cells {
			c := &g.Cells[i]
			if c.Owner == team && c.Col == 0 {
				starts = append(starts, c)
			}
		}
		atEnd = func(c *Cell) bool { return c.Col == g.Size-1 }
	}

	for _, start := range starts {
		visited := make(map[[2]int]bool, len(g.Cells))
		queue := []*Cell{start}

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			if atEnd(cur) {
				return true
			}

			key := [2]int{cur.Row, cur.Col}
			if visited[key] {
				continue
			}
			visited[key] = true

			for _, rc := range Neighbors(cur.Row, cur.Col, g.Size) {
				neighbor := &g.Cells[rc[0]*g.Size+rc[1]]
				if neighbor.Owner == team {
					queue = append(queue, neighbor)
				}
			}
		}
	}
	return false
}
