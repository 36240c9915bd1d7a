// Package checkpoint implements the partitioned columnar checkpoint
// writer: route-set batches are flushed to a Hive-style
// origin_id=<id>/part-*.bz2 directory tree, bzip2-compressed, under
// overwrite-or-ignore semantics so re-running a batch is idempotent.
package checkpoint

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/dsnet/compress/bzip2"
)

// Row is one route-set output record, matching the §4.5 schema.
type Row struct {
	OriginID      uint32
	DestinationID uint32
	RouteSet      []uint32 // expanded network link ids, in path order
	Cost          float64
	Mask          bool
	PathOverlap   float64
	Probability   float64
}

// Mode selects the writer's idempotence policy for a partition that
// already exists on disk.
type Mode int

const (
	// Overwrite replaces an existing partition file unconditionally.
	Overwrite Mode = iota
	// IgnoreExisting skips writing a partition that already exists,
	// leaving prior output untouched.
	IgnoreExisting
)

// Writer flushes batches of Rows to a partitioned dataset on disk.
type Writer struct {
	baseDir string
	mode    Mode
}

func New(baseDir string, mode Mode) *Writer {
	return &Writer{baseDir: baseDir, mode: mode}
}

func partitionDir(baseDir string, originID uint32) string {
	return filepath.Join(baseDir, fmt.Sprintf("origin_id=%d", originID))
}

func partitionFile(baseDir string, originID uint32) string {
	return filepath.Join(partitionDir(baseDir, originID), "part-0.bin.bz2")
}

// WriteBatch groups rows by OriginID and writes one partition file per
// origin. Rows within a batch need not be pre-sorted by origin; grouping
// happens here so the on-disk layout is stable regardless of the
// orchestrator's internal OD processing order.
func (w *Writer) WriteBatch(rows []Row) error {
	byOrigin := make(map[uint32][]Row)
	var origins []uint32
	for _, r := range rows {
		if _, seen := byOrigin[r.OriginID]; !seen {
			origins = append(origins, r.OriginID)
		}
		byOrigin[r.OriginID] = append(byOrigin[r.OriginID], r)
	}
	sort.Slice(origins, func(i, j int) bool { return origins[i] < origins[j] })

	for _, origin := range origins {
		if err := w.writePartition(origin, byOrigin[origin]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writePartition(originID uint32, rows []Row) error {
	path := partitionFile(w.baseDir, originID)
	if w.mode == IgnoreExisting {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	zw, err := bzip2.NewWriter(bw, nil)
	if err != nil {
		return err
	}

	if err := encodeRows(zw, rows); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return bw.Flush()
}

func encodeRows(w io.Writer, rows []Row) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(rows))); err != nil {
		return err
	}
	for _, r := range rows {
		if err := binary.Write(w, binary.LittleEndian, r.OriginID); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, r.DestinationID); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(r.RouteSet))); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, r.RouteSet); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, r.Cost); err != nil {
			return err
		}
		mask := uint8(0)
		if r.Mask {
			mask = 1
		}
		if err := binary.Write(w, binary.LittleEndian, mask); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, r.PathOverlap); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, r.Probability); err != nil {
			return err
		}
	}
	return nil
}

// ReadPartition reads back a single origin's partition, used by
// downstream consumers reloading a dataset written with
// store_results = false and by round-trip tests.
func ReadPartition(baseDir string, originID uint32) ([]Row, error) {
	path := partitionFile(baseDir, originID)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := bzip2.NewReader(bufio.NewReader(f), nil)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return decodeRows(zr)
}

func decodeRows(r io.Reader) ([]Row, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	rows := make([]Row, count)
	for i := range rows {
		if err := binary.Read(r, binary.LittleEndian, &rows[i].OriginID); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &rows[i].DestinationID); err != nil {
			return nil, err
		}
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		rows[i].RouteSet = make([]uint32, n)
		if err := binary.Read(r, binary.LittleEndian, rows[i].RouteSet); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &rows[i].Cost); err != nil {
			return nil, err
		}
		var mask uint8
		if err := binary.Read(r, binary.LittleEndian, &mask); err != nil {
			return nil, err
		}
		rows[i].Mask = mask != 0
		if err := binary.Read(r, binary.LittleEndian, &rows[i].PathOverlap); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &rows[i].Probability); err != nil {
			return nil, err
		}
	}
	return rows, nil
}
