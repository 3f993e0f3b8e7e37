// Package circuit implements the symbolic representation (C6): an
// immutable, pruned and consecutively-reindexed snapshot of a gate registry,
// plus its DAG text and CNF export/import.
package circuit

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/oisee/preimage-dag/pkg/bitgraph"
	"github.com/oisee/preimage-dag/pkg/cnf"
)

// Representation is the immutable pruned/reindexed DAG a hash body's
// symbolic run produces: only the gates reachable from OutputIndices
// survive, and all surviving variables are relabeled to a consecutive
// 1..NumVars range (§4.4, sym_representation.cpp).
type Representation struct {
	NumVars       int
	Gates         []bitgraph.Gate
	InputIndices  []int
	OutputIndices []int
}

// New builds a Representation from one symbolic run's raw gate log and
// signed input/output index vectors, applying prune then reindex in that
// order — exactly sym_representation.cpp's constructor.
func New(gates []bitgraph.Gate, inputIndices, outputIndices []int) *Representation {
	useful := pruneIrrelevantGates(gates, outputIndices)
	return reindexBits(useful, inputIndices, outputIndices)
}

// pruneIrrelevantGates keeps only the gates reachable from outputIndices by
// walking backward through gate inputs, breadth-first, exactly as
// sym_representation.cpp's pruneIrrelevantGates.
func pruneIrrelevantGates(gates []bitgraph.Gate, outputIndices []int) []bitgraph.Gate {
	byOutput := make(map[int]bitgraph.Gate, len(gates))
	for _, g := range gates {
		byOutput[g.Output] = g
	}

	visited := make(map[int]bool)
	var queue []int
	for _, idx := range outputIndices {
		if idx != 0 {
			queue = append(queue, bitgraph.Abs(idx))
		}
	}

	var useful []bitgraph.Gate
	usefulSeen := make(map[int]bool)
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if visited[v] {
			continue
		}
		visited[v] = true
		g, ok := byOutput[v]
		if !ok {
			continue // a bare input variable, no producing gate
		}
		if !usefulSeen[v] {
			usefulSeen[v] = true
			useful = append(useful, g)
		}
		for _, in := range g.Inputs {
			queue = append(queue, bitgraph.Abs(in))
		}
	}

	// Preserve original emission (topological) order among kept gates.
	sort.Slice(useful, func(i, j int) bool { return useful[i].Output < useful[j].Output })
	return useful
}

// reindexBits collects every variable index appearing in the pruned gate
// list or the output vector, relabels them to a consecutive 1..k range
// preserving sign wherever they appear, and returns the finished
// Representation — sym_representation.cpp's reindexBits. An input index
// that no surviving gate or output references maps to 0 (absent), not to a
// retained variable: only the gate list and the output vector define the
// surviving set.
func reindexBits(gates []bitgraph.Gate, inputIndices, outputIndices []int) *Representation {
	seen := make(map[int]bool)
	var vars []int
	note := func(idx int) {
		a := bitgraph.Abs(idx)
		if a != 0 && !seen[a] {
			seen[a] = true
			vars = append(vars, a)
		}
	}
	for _, g := range gates {
		note(g.Output)
		for _, in := range g.Inputs {
			note(in)
		}
	}
	for _, idx := range outputIndices {
		note(idx)
	}
	sort.Ints(vars)

	old2new := make(map[int]int, len(vars))
	for i, old := range vars {
		old2new[old] = i + 1
	}
	remap := func(idx int) int {
		if idx == 0 {
			return 0
		}
		if idx < 0 {
			return -old2new[-idx]
		}
		return old2new[idx]
	}

	newGates := make([]bitgraph.Gate, len(gates))
	for i, g := range gates {
		newInputs := make([]int, len(g.Inputs))
		for j, in := range g.Inputs {
			newInputs[j] = remap(in)
		}
		newGates[i] = bitgraph.Gate{Type: g.Type, Output: remap(g.Output), Inputs: newInputs}
	}

	newInputIdx := make([]int, len(inputIndices))
	for i, idx := range inputIndices {
		newInputIdx[i] = remap(idx)
	}
	newOutputIdx := make([]int, len(outputIndices))
	for i, idx := range outputIndices {
		newOutputIdx[i] = remap(idx)
	}

	return &Representation{
		NumVars:       len(vars),
		Gates:         newGates,
		InputIndices:  newInputIdx,
		OutputIndices: newOutputIdx,
	}
}

// StructuralError reports malformed persisted DAG/CNF data, detected on
// load (§7) — distinct from a bitgraph.DomainError (caller misuse) and from
// dagsolver.ErrUnsat (a search outcome, not a data problem).
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string { return "circuit: malformed data: " + e.Msg }

func structuralErrorf(format string, args ...any) error {
	return &StructuralError{Msg: fmt.Sprintf(format, args...)}
}

// ToDAG renders r in a line-oriented DAG text format: a "VARS n" line, an
// "INPUTS n" line followed by the input index row, an "OUTPUTS n" line
// followed by the output index row, and a "GATES n" line followed by one
// line per gate in bitgraph.Gate.String form.
func (r *Representation) ToDAG() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "VARS %d\n", r.NumVars)
	fmt.Fprintf(&sb, "INPUTS %d\n", len(r.InputIndices))
	writeInts(&sb, r.InputIndices)
	fmt.Fprintf(&sb, "OUTPUTS %d\n", len(r.OutputIndices))
	writeInts(&sb, r.OutputIndices)
	fmt.Fprintf(&sb, "GATES %d\n", len(r.Gates))
	for _, g := range r.Gates {
		sb.WriteString(g.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func writeInts(sb *strings.Builder, vals []int) {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	sb.WriteString(strings.Join(parts, " "))
	sb.WriteByte('\n')
}

// FromDAG parses the text format produced by ToDAG, validating every count
// and gate it encounters; any inconsistency is a *StructuralError.
func FromDAG(text string) (*Representation, error) {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	readHeader := func(tag string) (int, error) {
		if !sc.Scan() {
			return 0, structuralErrorf("expected %q line, got EOF", tag)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 || fields[0] != tag {
			return 0, structuralErrorf("expected %q header, got %q", tag, sc.Text())
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 {
			return 0, structuralErrorf("invalid %s count %q", tag, fields[1])
		}
		return n, nil
	}
	readInts := func(n int) ([]int, error) {
		if !sc.Scan() {
			if n == 0 {
				return []int{}, nil
			}
			return nil, structuralErrorf("expected %d integers, got EOF", n)
		}
		line := strings.TrimSpace(sc.Text())
		if n == 0 {
			if line != "" {
				return nil, structuralErrorf("expected an empty line, got %q", line)
			}
			return []int{}, nil
		}
		fields := strings.Fields(line)
		if len(fields) != n {
			return nil, structuralErrorf("expected %d integers, got %d", n, len(fields))
		}
		out := make([]int, n)
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, structuralErrorf("invalid integer %q", f)
			}
			out[i] = v
		}
		return out, nil
	}

	numVars, err := readHeader("VARS")
	if err != nil {
		return nil, err
	}
	numInputs, err := readHeader("INPUTS")
	if err != nil {
		return nil, err
	}
	inputIndices, err := readInts(numInputs)
	if err != nil {
		return nil, err
	}
	numOutputs, err := readHeader("OUTPUTS")
	if err != nil {
		return nil, err
	}
	outputIndices, err := readInts(numOutputs)
	if err != nil {
		return nil, err
	}
	numGates, err := readHeader("GATES")
	if err != nil {
		return nil, err
	}
	gates := make([]bitgraph.Gate, numGates)
	for i := 0; i < numGates; i++ {
		if !sc.Scan() {
			return nil, structuralErrorf("expected %d gate lines, got %d", numGates, i)
		}
		g, err := bitgraph.ParseGate(sc.Text())
		if err != nil {
			return nil, structuralErrorf("gate %d: %v", i, err)
		}
		if bitgraph.Abs(g.Output) > numVars {
			return nil, structuralErrorf("gate %d: output %d exceeds declared %d vars", i, g.Output, numVars)
		}
		for _, in := range g.Inputs {
			if bitgraph.Abs(in) > numVars {
				return nil, structuralErrorf("gate %d: input %d exceeds declared %d vars", i, in, numVars)
			}
			if bitgraph.Abs(in) >= bitgraph.Abs(g.Output) {
				return nil, structuralErrorf("gate %d: input %d is not smaller than output %d (acyclicity violated)", i, in, g.Output)
			}
		}
		gates[i] = g
	}
	for _, idx := range inputIndices {
		if bitgraph.Abs(idx) > numVars {
			return nil, structuralErrorf("input index %d exceeds declared %d vars", idx, numVars)
		}
	}
	for _, idx := range outputIndices {
		if bitgraph.Abs(idx) > numVars {
			return nil, structuralErrorf("output index %d exceeds declared %d vars", idx, numVars)
		}
	}

	return &Representation{
		NumVars:       numVars,
		Gates:         gates,
		InputIndices:  inputIndices,
		OutputIndices: outputIndices,
	}, nil
}

// ToCNF expands every gate's clauses into a cnf.CNF over the same variable
// numbering (§4.5, C7).
func (r *Representation) ToCNF() *cnf.CNF {
	return cnf.FromGates(r.NumVars, r.Gates)
}
