package rules

import (
	"bufio"
	"os"
)

// LoadLines reads a filter list from a local file, one rule per line.
// Lines are returned raw: classification and error reporting happen in the
// conversion pipeline so that unparseable rules are counted per rule
// instead of being dropped here.
func LoadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
