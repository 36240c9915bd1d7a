package linkloading

// COO is a sparse coordinate-format OD matrix: parallel row/col/value
// slices, one triplet per contribution. Multiple routes for the same
// OD append separate triplets rather than pre-summing, matching how
// downstream COO consumers (pandas-style sparse frames in the original
// tool) expect duplicates to be resolved on read, not on write.
type COO struct {
	Rows   []uint32
	Cols   []uint32
	Values []float64
}

func (c *COO) Append(row, col uint32, value float64) {
	c.Rows = append(c.Rows, row)
	c.Cols = append(c.Cols, col)
	c.Values = append(c.Values, value)
}

func (c *COO) Len() int { return len(c.Values) }

// Extend appends other's triplets onto c, used by reduction to merge
// per-thread COO buffers without resolving duplicate coordinates.
func (c *COO) Extend(other *COO) {
	if other == nil {
		return
	}
	c.Rows = append(c.Rows, other.Rows...)
	c.Cols = append(c.Cols, other.Cols...)
	c.Values = append(c.Values, other.Values...)
}
