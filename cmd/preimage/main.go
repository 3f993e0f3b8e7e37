package main

import (
	"encoding/hex"
	"fmt"
	"math/rand"
	"os"
	"runtime"

	"github.com/oisee/preimage-dag/pkg/bitgraph"
	"github.com/oisee/preimage-dag/pkg/circuit"
	"github.com/oisee/preimage-dag/pkg/dagsolver"
	"github.com/oisee/preimage-dag/pkg/hashes"
	"github.com/oisee/preimage-dag/pkg/search"
	"github.com/oisee/preimage-dag/pkg/symhash"
	"github.com/spf13/cobra"
)

func hashByName(name string, numBytes int) (symhash.Hash, error) {
	switch name {
	case "sha256":
		return hashes.SHA256{NumBytes: numBytes}, nil
	case "md5":
		return hashes.MD5{NumBytes: numBytes}, nil
	case "ripemd160":
		return hashes.RIPEMD160{NumBytes: numBytes}, nil
	case "same_io":
		return hashes.SameIO{NumBits: numBytes * 8}, nil
	case "not":
		return hashes.Not{NumBits: numBytes * 8}, nil
	case "lossy_pseudo":
		return hashes.LossyPseudo{NumBits: numBytes * 8}, nil
	case "non_lossy_pseudo":
		return hashes.NonLossyPseudo{NumBits: numBytes * 8}, nil
	default:
		return nil, fmt.Errorf("unknown hash %q", name)
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "preimage",
		Short: "Preimage search over symbolic bit circuits",
	}

	var hashName string
	var numBytes int
	var difficulty int

	dagCmd := &cobra.Command{
		Use:   "dag",
		Short: "Build the symbolic gate DAG for a hash body and print it in DAG text form",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hashByName(hashName, numBytes)
			if err != nil {
				return err
			}
			if difficulty <= 0 {
				difficulty = h.DefaultDifficulty()
			}
			reg := bitgraph.NewRegistry()
			seed := make([]bool, h.NumInputBits())
			res, err := symhash.RunSymbolic(reg, h, seed, difficulty)
			if err != nil {
				return fmt.Errorf("symbolic run failed: %w", err)
			}
			rep := circuit.New(res.Registry.Gates(), res.InputIndices, res.OutputIndices)
			fmt.Printf("%s @ difficulty %d: %d vars, %d gates\n", h.Name(), difficulty, rep.NumVars, len(rep.Gates))
			fmt.Print(rep.ToDAG())
			return nil
		},
	}
	dagCmd.Flags().StringVar(&hashName, "hash", "sha256", "hash body: sha256|md5|ripemd160|same_io|not|lossy_pseudo|non_lossy_pseudo")
	dagCmd.Flags().IntVar(&numBytes, "bytes", 4, "input message length in bytes")
	dagCmd.Flags().IntVar(&difficulty, "difficulty", 0, "round count (defaults to the hash's full round count)")

	var target string
	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "Recover an input consistent with a given hex-encoded digest",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hashByName(hashName, numBytes)
			if err != nil {
				return err
			}
			if difficulty <= 0 {
				difficulty = h.DefaultDifficulty()
			}
			targetBytes, err := hex.DecodeString(target)
			if err != nil {
				return fmt.Errorf("invalid --target hex: %w", err)
			}

			reg := bitgraph.NewRegistry()
			seed := make([]bool, h.NumInputBits())
			res, err := symhash.RunSymbolic(reg, h, seed, difficulty)
			if err != nil {
				return fmt.Errorf("symbolic run failed: %w", err)
			}
			rep := circuit.New(res.Registry.Gates(), res.InputIndices, res.OutputIndices)
			if len(targetBytes)*8 != len(rep.OutputIndices) {
				return fmt.Errorf("--target is %d bits, digest is %d bits", len(targetBytes)*8, len(rep.OutputIndices))
			}

			observed := make(map[int]bool, len(rep.OutputIndices))
			for i, idx := range rep.OutputIndices {
				if idx == 0 {
					continue
				}
				byteIdx := len(targetBytes) - 1 - i/8
				bit := (targetBytes[byteIdx] >> uint(i%8)) & 1
				v := bit == 1
				if idx < 0 {
					v = !v
				}
				observed[bitgraph.Abs(idx)] = v
			}

			solver := dagsolver.New(rep.NumVars, rep.Gates)
			solution, err := solver.Solve(observed)
			if err != nil {
				if err == dagsolver.ErrUnsat {
					fmt.Println("UNSAT: no input is consistent with this digest")
					return nil
				}
				return err
			}

			input := make([]bool, len(rep.InputIndices))
			for i, idx := range rep.InputIndices {
				if idx == 0 {
					continue
				}
				v := solution[bitgraph.Abs(idx)]
				if idx < 0 {
					v = !v
				}
				input[i] = v
			}
			fmt.Printf("recovered input: %s\n", bitsToHex(input))
			return nil
		},
	}
	solveCmd.Flags().StringVar(&hashName, "hash", "sha256", "hash body: sha256|md5|ripemd160|same_io|not|lossy_pseudo|non_lossy_pseudo")
	solveCmd.Flags().IntVar(&numBytes, "bytes", 4, "input message length in bytes")
	solveCmd.Flags().IntVar(&difficulty, "difficulty", 0, "round count (defaults to the hash's full round count)")
	solveCmd.Flags().StringVar(&target, "target", "", "hex-encoded digest to invert (required)")
	solveCmd.MarkFlagRequired("target")

	var numTrials int
	var numWorkers int
	var verbose bool
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate random inputs, hash them, and attempt to recover each (end-to-end smoke test)",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hashByName(hashName, numBytes)
			if err != nil {
				return err
			}
			if difficulty <= 0 {
				difficulty = h.DefaultDifficulty()
			}
			if numWorkers <= 0 {
				numWorkers = runtime.NumCPU()
			}

			seeds := make([][]bool, numTrials)
			for i := range seeds {
				seeds[i] = randomBits(h.NumInputBits())
			}

			cfg := search.Config{Difficulties: []int{difficulty}, NumWorkers: numWorkers, Verbose: verbose}
			table := search.Run(cfg, h, seeds)
			for _, a := range table.Attempts() {
				status := "UNSAT"
				if a.Solved {
					status = "solved: " + bitsToHex(a.Preimage)
				}
				fmt.Printf("%s @ difficulty %d (%d bits): %s (%s)\n", a.HashName, a.Difficulty, a.NumInputBits, status, a.Elapsed)
			}
			fmt.Printf("\n%d/%d recovered\n", table.Solved(), table.Len())
			return nil
		},
	}
	demoCmd.Flags().StringVar(&hashName, "hash", "sha256", "hash body: sha256|md5|ripemd160|same_io|not|lossy_pseudo|non_lossy_pseudo")
	demoCmd.Flags().IntVar(&numBytes, "bytes", 2, "input message length in bytes")
	demoCmd.Flags().IntVar(&difficulty, "difficulty", 0, "round count (defaults to the hash's full round count)")
	demoCmd.Flags().IntVar(&numTrials, "trials", 4, "number of random inputs to attempt")
	demoCmd.Flags().IntVar(&numWorkers, "workers", 0, "number of parallel workers (defaults to NumCPU)")
	demoCmd.Flags().BoolVar(&verbose, "verbose", false, "print progress")

	rootCmd.AddCommand(dagCmd, solveCmd, demoCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func randomBits(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = rand.Intn(2) == 1
	}
	return out
}

func bitsToHex(bits []bool) string {
	n := (len(bits) + 7) / 8
	out := make([]byte, n)
	for i, b := range bits {
		if b {
			out[n-1-i/8] |= 1 << uint(i%8)
		}
	}
	return hex.EncodeToString(out)
}
