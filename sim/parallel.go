package sim

import (
	"slices"
	"sync"

	"github.com/pthm-cable/wormhole/display"
)

// parallelThreshold is the minimum node count to split neighbor queries
// across workers.
const parallelThreshold = 64

// computeNeighbors fills w.neighbors from w.points. Each worker owns a
// contiguous range of indices and only reads the grid.
func (w *World) computeNeighbors() {
	n := len(w.points)
	w.neighbors = slices.Grow(w.neighbors[:0], n)[:n]
	if w.grid == nil {
		clear(w.neighbors)
		return
	}

	w.grid.Clear()
	for i, p := range w.points {
		w.grid.Insert(i, p)
	}

	workers := min(w.workers, n)
	if n < parallelThreshold || workers <= 1 {
		w.neighborRange(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.neighborRange(start, end)
		}()
	}
	wg.Wait()
}

// neighborRange computes the sorted neighbor ids of nodes [start, end).
// Fresh slices are allocated because published snapshots keep them.
func (w *World) neighborRange(start, end int) {
	var scratch []int
	for i := start; i < end; i++ {
		scratch = w.grid.QueryRadiusInto(scratch[:0], w.points[i], w.radius, w.points, i)
		if len(scratch) == 0 {
			w.neighbors[i] = nil
			continue
		}
		ids := make([]display.NodeID, len(scratch))
		for k, j := range scratch {
			ids[k] = w.ids[j]
		}
		slices.Sort(ids)
		w.neighbors[i] = ids
	}
}
