package search

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oisee/preimage-dag/pkg/bitgraph"
	"github.com/oisee/preimage-dag/pkg/circuit"
	"github.com/oisee/preimage-dag/pkg/dagsolver"
	"github.com/oisee/preimage-dag/pkg/result"
	"github.com/oisee/preimage-dag/pkg/symhash"
)

// WorkerPool manages parallel preimage search workers. Each task gets its
// own bitgraph.Registry and dagsolver.Solver, so workers share no mutable
// state beyond the result table.
type WorkerPool struct {
	NumWorkers int
	Results    *result.Table
	checked    atomic.Int64
	found      atomic.Int64
	completed  atomic.Int64
}

// NewWorkerPool creates a pool with the given number of workers.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		NumWorkers: numWorkers,
		Results:    result.NewTable(),
	}
}

// SearchTask is one independent preimage attempt: build the symbolic
// representation of Hash run at Difficulty over a SeedBits-derived input,
// then search for any input consistent with the resulting digest.
type SearchTask struct {
	Hash       symhash.Hash
	Difficulty int
	SeedBits   []bool // concrete input used to produce the target digest
}

// Stats returns search statistics.
func (wp *WorkerPool) Stats() (checked, found int64) {
	return wp.checked.Load(), wp.found.Load()
}

// RunTasks distributes search tasks across workers.
func (wp *WorkerPool) RunTasks(tasks []SearchTask, verbose bool) {
	totalTasks := int64(len(tasks))

	ch := make(chan SearchTask, len(tasks))
	for _, t := range tasks {
		ch <- t
	}
	close(ch)

	done := make(chan struct{})
	startTime := time.Now()
	if verbose {
		go func() {
			ticker := time.NewTicker(10 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					comp := wp.completed.Load()
					found := wp.found.Load()
					elapsed := time.Since(startTime)
					pct := float64(comp) / float64(totalTasks) * 100
					fmt.Printf("  [%s] %d/%d attempts (%.1f%%) | %d solved\n",
						elapsed.Round(time.Second), comp, totalTasks, pct, found)
				}
			}
		}()
	}

	var wg sync.WaitGroup
	for i := 0; i < wp.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range ch {
				wp.processTask(task)
				wp.completed.Add(1)
			}
		}()
	}
	wg.Wait()

	close(done)
	if verbose {
		elapsed := time.Since(startTime)
		comp := wp.completed.Load()
		found := wp.found.Load()
		fmt.Printf("  [%s] %d/%d attempts (100.0%%) | %d solved | DONE\n",
			elapsed.Round(time.Second), comp, totalTasks, found)
	}
}

func (wp *WorkerPool) processTask(task SearchTask) {
	wp.checked.Add(1)

	reg := bitgraph.NewRegistry()
	res, err := symhash.RunSymbolic(reg, task.Hash, task.SeedBits, task.Difficulty)
	if err != nil {
		wp.Results.Add(result.Attempt{
			HashName:     task.Hash.Name(),
			Difficulty:   task.Difficulty,
			NumInputBits: task.Hash.NumInputBits(),
			Solved:       false,
		})
		return
	}

	rep := circuit.New(res.Registry.Gates(), res.InputIndices, res.OutputIndices)
	observed := make(map[int]bool, len(rep.OutputIndices))
	for i, idx := range rep.OutputIndices {
		if idx == 0 {
			continue
		}
		v := res.OutputBits[i]
		if idx < 0 {
			v = !v
		}
		observed[bitgraph.Abs(idx)] = v
	}

	start := time.Now()
	solver := dagsolver.New(rep.NumVars, rep.Gates)
	solution, solveErr := solver.Solve(observed)
	elapsed := time.Since(start)

	attempt := result.Attempt{
		HashName:     task.Hash.Name(),
		Difficulty:   task.Difficulty,
		NumInputBits: task.Hash.NumInputBits(),
		Elapsed:      elapsed,
	}
	if solveErr == nil {
		attempt.Solved = true
		attempt.Preimage = extractPreimage(rep.InputIndices, solution)
		wp.found.Add(1)
	}
	wp.Results.Add(attempt)
}

// extractPreimage reads each input bit's recovered value out of solution,
// honoring sign; a 0 index means no surviving gate or output references
// that input bit (it does not affect the digest) and it is reported as false.
func extractPreimage(inputIndices []int, solution map[int]bool) []bool {
	out := make([]bool, len(inputIndices))
	for i, idx := range inputIndices {
		if idx == 0 {
			continue
		}
		v := solution[bitgraph.Abs(idx)]
		if idx < 0 {
			v = !v
		}
		out[i] = v
	}
	return out
}
