package workload

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/inference-sim/vmsim/sim"
)

// ParseRandomNumbers reads a random-number file: the first value is the count,
// followed by at least that many non-negative integers. Extra values are ignored.
func ParseRandomNumbers(r io.Reader) (*sim.RandomFile, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var values []int
	for sc.Scan() {
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("random value %d: %w", len(values), err)
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading random numbers: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("random number file is empty")
	}

	count, numbers := values[0], values[1:]
	if count < 1 || count > len(numbers) {
		return nil, fmt.Errorf("random number file declares %d values but holds %d", count, len(numbers))
	}
	return sim.NewRandomFile(numbers[:count])
}

// LoadRandomFile opens and parses a random-number file.
func LoadRandomFile(path string) (*sim.RandomFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening random file: %w", err)
	}
	defer f.Close()
	return ParseRandomNumbers(f)
}
