// Package demand implements the generalized sparse OD demand table:
// an indexed (origin, destination) key list with one or more named
// floating-point columns, added incrementally and finalized into a
// column-major layout for the orchestrator's hot loop.
package demand

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"

	"github.com/lintang-b-s/routechoice/pkg/util"
)

// Key is an OD pair used to index demand rows. The orchestrator matches
// it against the external node ids of its OD pairs.
type Key struct {
	Origin, Destination uint32
}

// Numeric is the constraint the two typed column pipelines share; the
// engine keeps f32 and f64 columns as separate parallel pipelines
// instead of boxing every value behind an interface on the hot path.
type Numeric = constraints.Float

type column struct {
	name    string
	isF64   bool
	valuesF32 map[Key]float32
	valuesF64 map[Key]float64
}

// Table is the mutable accumulation form of the demand table. Call
// Finalize to obtain the immutable, orchestrator-facing layout.
type Table struct {
	columns   []*column
	byName    map[string]int
	keysUnion map[Key]struct{}
}

func NewTable() *Table {
	return &Table{
		byName:    make(map[string]int),
		keysUnion: make(map[Key]struct{}),
	}
}

func (t *Table) IsEmpty() bool { return len(t.keysUnion) == 0 }

// NoDemand reports whether no row carries a nonzero value in any
// column.
func (t *Table) NoDemand() bool {
	for _, c := range t.columns {
		if c.isF64 {
			for _, v := range c.valuesF64 {
				if v != 0 {
					return false
				}
			}
		} else {
			for _, v := range c.valuesF32 {
				if v != 0 {
					return false
				}
			}
		}
	}
	return true
}

// AddColumnF64 adds a named f64 demand column from a sparse
// (Key -> value) frame, dropping zero and NaN entries. Adding a column
// whose name collides with an existing one is an error.
func (t *Table) AddColumnF64(name string, values map[Key]float64) error {
	if _, exists := t.byName[name]; exists {
		return util.WrapErrorf(util.ErrDuplicateDemandCol, util.ErrDuplicateDemandCol, "demand column %q already exists", name)
	}
	filtered := filterSparseValues(values, t.keysUnion)
	t.byName[name] = len(t.columns)
	t.columns = append(t.columns, &column{name: name, isF64: true, valuesF64: filtered})
	return nil
}

// AddColumnF32 is AddColumnF64's f32 counterpart.
func (t *Table) AddColumnF32(name string, values map[Key]float32) error {
	if _, exists := t.byName[name]; exists {
		return util.WrapErrorf(util.ErrDuplicateDemandCol, util.ErrDuplicateDemandCol, "demand column %q already exists", name)
	}
	filtered := filterSparseValues(values, t.keysUnion)
	t.byName[name] = len(t.columns)
	t.columns = append(t.columns, &column{name: name, isF64: false, valuesF32: filtered})
	return nil
}

// filterSparseValues drops zero and NaN entries from a sparse frame and
// records every surviving key in keysUnion, shared between the f32 and
// f64 column pipelines via the Numeric constraint.
func filterSparseValues[T Numeric](values map[Key]T, keysUnion map[Key]struct{}) map[Key]T {
	filtered := make(map[Key]T, len(values))
	for k, v := range values {
		if v == 0 || math.IsNaN(float64(v)) {
			continue
		}
		filtered[k] = v
		keysUnion[k] = struct{}{}
	}
	return filtered
}

// AddDenseMatrixF64 converts a dense n_origins x n_destinations matrix
// to the table's sparse row representation, dropping zeros and NaNs,
// under one named column per row-major matrix supplied.
func (t *Table) AddDenseMatrixF64(name string, matrix [][]float64, originIDs, destIDs []uint32) error {
	util.AssertPanic(len(matrix) == len(originIDs), "demand: matrix row count must match originIDs")
	sparse := make(map[Key]float64)
	for i, row := range matrix {
		util.AssertPanic(len(row) == len(destIDs), "demand: matrix column count must match destIDs")
		for j, v := range row {
			if v == 0 || math.IsNaN(v) {
				continue
			}
			sparse[Key{Origin: originIDs[i], Destination: destIDs[j]}] = v
		}
	}
	return t.AddColumnF64(name, sparse)
}

// FinalizedColumn is one column's values aligned to the shared Rows
// order; exactly one of F32/F64 is non-nil.
type FinalizedColumn struct {
	Name string
	F32  []float32
	F64  []float64
}

// Finalized is the column-major, C-friendly layout the link-loading
// engine and orchestrator iterate over.
type Finalized struct {
	Rows    []Key
	Columns []FinalizedColumn
}

// Finalize unions every column's keys, fills missing entries with 0,
// and lays each column out as a slice aligned with Rows order. Row
// order is deterministic (sorted by origin, then destination) so
// finalize is itself reproducible across runs.
func (t *Table) Finalize() *Finalized {
	rows := make([]Key, 0, len(t.keysUnion))
	for k := range t.keysUnion {
		rows = append(rows, k)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Origin != rows[j].Origin {
			return rows[i].Origin < rows[j].Origin
		}
		return rows[i].Destination < rows[j].Destination
	})

	out := &Finalized{Rows: rows}
	for _, c := range t.columns {
		fc := FinalizedColumn{Name: c.name}
		if c.isF64 {
			vals := make([]float64, len(rows))
			for i, k := range rows {
				vals[i] = c.valuesF64[k]
			}
			fc.F64 = vals
		} else {
			vals := make([]float32, len(rows))
			for i, k := range rows {
				vals[i] = c.valuesF32[k]
			}
			fc.F32 = vals
		}
		out.Columns = append(out.Columns, fc)
	}
	return out
}
