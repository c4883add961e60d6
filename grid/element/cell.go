package element

// Cell is one column of a Row.
type Cell struct {
	Column int

	// Value the layout collaborator measures and draws. Nil until bound.
	Content any

	// Incremented each time the cell content template was regenerated.
	Generation int

	// Non-owning back reference.
	Row *Row
}

// ResetContent drops the bound content so the next bind regenerates it.
func (c *Cell) ResetContent() {
	c.Content = nil
	c.Generation++
}
