// Package search orchestrates many independent preimage-recovery attempts
// concurrently, one dagsolver run per task, each over its own gate
// registry and solver instance.
package search

import (
	"fmt"
	"runtime"
	"time"

	"github.com/oisee/preimage-dag/pkg/result"
	"github.com/oisee/preimage-dag/pkg/symhash"
)

// Config holds search configuration.
type Config struct {
	Difficulties []int // round counts to sweep; defaults to [Hash.DefaultDifficulty()]
	NumWorkers   int   // number of parallel workers (defaults to NumCPU)
	Verbose      bool  // print progress
}

// Run searches for a preimage of h(seed) for every seed in seeds, at every
// difficulty in cfg.Difficulties, reporting aggregate success/failure
// counts the way a batch preimage-recovery campaign would.
func Run(cfg Config, h symhash.Hash, seeds [][]bool) *result.Table {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}
	difficulties := cfg.Difficulties
	if len(difficulties) == 0 {
		difficulties = []int{h.DefaultDifficulty()}
	}

	pool := NewWorkerPool(cfg.NumWorkers)
	startTime := time.Now()

	var tasks []SearchTask
	for _, seed := range seeds {
		for _, d := range difficulties {
			tasks = append(tasks, SearchTask{Hash: h, Difficulty: d, SeedBits: seed})
		}
	}
	if cfg.Verbose {
		fmt.Printf("=== Searching %s over %d seed(s) x %d difficulty level(s) ===\n", h.Name(), len(seeds), len(difficulties))
	}

	pool.RunTasks(tasks, cfg.Verbose)

	if cfg.Verbose {
		checked, found := pool.Stats()
		elapsed := time.Since(startTime)
		fmt.Printf("  Checked: %d, Solved: %d, Elapsed: %s\n", checked, found, elapsed.Round(time.Millisecond))
	}

	return pool.Results
}

// Single runs one preimage-recovery attempt and returns its outcome.
func Single(h symhash.Hash, difficulty int, seed []bool, verbose bool) result.Attempt {
	pool := NewWorkerPool(1)
	pool.RunTasks([]SearchTask{{Hash: h, Difficulty: difficulty, SeedBits: seed}}, verbose)
	attempts := pool.Results.Attempts()
	return attempts[0]
}
