package workload

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/vmsim/sim"
)

// Scenario is a self-contained YAML simulation input.
//
//	processes:
//	  - vmas:
//	      - {start: 0, end: 9, write_protected: false, file_mapped: false}
//	instructions: ["c 0", "r 3", "w 3"]
type Scenario struct {
	Processes    []ProcessSpec `yaml:"processes"`
	Instructions []string      `yaml:"instructions"`
}

// ProcessSpec lists the VMAs of one process. Processes are numbered in file order.
type ProcessSpec struct {
	VMAs []sim.VMA `yaml:"vmas"`
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a YAML scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if len(sc.Processes) == 0 {
		return nil, fmt.Errorf("scenario declares no processes")
	}
	return &sc, nil
}

// Input builds the processes and a restartable script from the scenario.
func (sc *Scenario) Input() (*Input, error) {
	procs := make([]*sim.Process, len(sc.Processes))
	for id, spec := range sc.Processes {
		p, err := sim.NewProcess(id, spec.VMAs)
		if err != nil {
			return nil, fmt.Errorf("scenario: %w", err)
		}
		procs[id] = p
	}

	insts := make([]sim.Instruction, len(sc.Instructions))
	for i, text := range sc.Instructions {
		inst, err := ParseInstruction(text)
		if err != nil {
			return nil, fmt.Errorf("scenario instruction %d: %w", i, err)
		}
		insts[i] = inst
	}
	return &Input{Processes: procs, Script: sim.NewSliceSource(insts)}, nil
}
