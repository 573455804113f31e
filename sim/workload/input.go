package workload

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/vmsim/sim"
)

// Input is a loaded simulation input: the processes and the instruction script.
type Input struct {
	Processes []*sim.Process
	Script    sim.InstructionSource
	closer    io.Closer
}

// Close releases the underlying file, if any.
func (in *Input) Close() error {
	if in.closer == nil {
		return nil
	}
	return in.closer.Close()
}

// OpenInput loads path. Files ending in .yaml or .yml are read as scenarios
// (see LoadScenario); anything else uses the classic text format (see ParseInput),
// whose script is then streamed from the open file until Close.
func OpenInput(path string) (*Input, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		sc, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		return sc.Input()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	in, err := ParseInput(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	in.closer = f
	return in, nil
}

// lineReader yields the meaningful lines of the classic format, skipping blank lines
// and lines starting with '#'.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func (lr *lineReader) next() (string, bool, error) {
	for lr.sc.Scan() {
		lr.line++
		text := strings.TrimSpace(lr.sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		return text, true, nil
	}
	return "", false, lr.sc.Err()
}

// ints parses the first n whitespace-separated integers of the next meaningful line.
func (lr *lineReader) ints(n int, what string) ([]int, error) {
	text, ok, err := lr.next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("unexpected end of input, expected %s", what)
	}
	fields := strings.Fields(text)
	if len(fields) < n {
		return nil, fmt.Errorf("line %d: expected %s, got %q", lr.line, what, text)
	}
	vals := make([]int, n)
	for i := range vals {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("line %d: expected %s, got %q", lr.line, what, text)
		}
		vals[i] = v
	}
	return vals, nil
}

// ParseInput reads the classic input format:
//
//	#comment
//	<process count>
//	<vma count of process 0>
//	<start page> <end page> <write protected 0|1> <file mapped 0|1>
//	...
//	c <process>
//	r <page>
//	w <page>
//
// The processes are parsed eagerly; the instructions are parsed lazily from r.
func ParseInput(r io.Reader) (*Input, error) {
	lr := &lineReader{sc: bufio.NewScanner(r)}

	counts, err := lr.ints(1, "process count")
	if err != nil {
		return nil, err
	}
	numProcs := counts[0]
	if numProcs < 1 {
		return nil, fmt.Errorf("line %d: process count must be positive, got %d", lr.line, numProcs)
	}

	procs := make([]*sim.Process, numProcs)
	for id := range procs {
		n, err := lr.ints(1, fmt.Sprintf("vma count of process %d", id))
		if err != nil {
			return nil, err
		}
		if n[0] < 0 {
			return nil, fmt.Errorf("line %d: negative vma count %d", lr.line, n[0])
		}
		vmas := make([]sim.VMA, n[0])
		for k := range vmas {
			v, err := lr.ints(4, "vma <start> <end> <write_protected> <file_mapped>")
			if err != nil {
				return nil, err
			}
			vmas[k] = sim.VMA{StartPage: v[0], EndPage: v[1], WriteProtected: v[2] != 0, FileMapped: v[3] != 0}
		}
		if procs[id], err = sim.NewProcess(id, vmas); err != nil {
			return nil, fmt.Errorf("line %d: %w", lr.line, err)
		}
	}
	logrus.Debugf("loaded %d processes", numProcs)

	return &Input{Processes: procs, Script: &ScriptReader{lr: lr}}, nil
}

// ScriptReader streams instructions from the remainder of a classic input file.
type ScriptReader struct {
	lr *lineReader
}

func (s *ScriptReader) Next() (sim.Instruction, bool, error) {
	text, ok, err := s.lr.next()
	if err != nil || !ok {
		return sim.Instruction{}, false, err
	}
	inst, err := ParseInstruction(text)
	if err != nil {
		return sim.Instruction{}, false, fmt.Errorf("line %d: %w", s.lr.line, err)
	}
	return inst, true, nil
}

// ParseInstruction parses one script line such as "c 0", "r 12" or "w 3".
func ParseInstruction(text string) (sim.Instruction, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 || len(fields[0]) != 1 || !sim.IsValidOp(sim.Op(fields[0][0])) {
		return sim.Instruction{}, fmt.Errorf("malformed instruction %q", text)
	}
	arg, err := strconv.Atoi(fields[1])
	if err != nil {
		return sim.Instruction{}, fmt.Errorf("malformed instruction %q: %w", text, err)
	}
	return sim.Instruction{Op: sim.Op(fields[0][0]), Arg: arg}, nil
}
