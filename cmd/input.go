package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deso-protocol/ternpow/encoding"
	"github.com/pkg/errors"
)

// ParseMessages reads one message per line as trytes. Blank lines and lines
// starting with # are skipped. Each job is tagged source:line.
func ParseMessages(source string, reader io.Reader) ([]*MineJob, error) {
	jobs := []*MineJob{}
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		trits, err := encoding.TrytesToTrits(line)
		if err != nil {
			return nil, errors.Wrapf(err, "ParseMessages: %s:%d", source, lineNumber)
		}
		jobs = append(jobs, &MineJob{
			Source: fmt.Sprintf("%s:%d", source, lineNumber),
			Trits:  trits,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "ParseMessages: Problem reading %s", source)
	}
	return jobs, nil
}

// LoadJobs collects the messages named by --trytes and --input-file, in
// that order.
func LoadJobs(config *Config) ([]*MineJob, error) {
	jobs := []*MineJob{}
	if config.Trytes != "" {
		trits, err := encoding.TrytesToTrits(strings.TrimSpace(config.Trytes))
		if err != nil {
			return nil, errors.Wrapf(err, "LoadJobs: Problem parsing --trytes")
		}
		jobs = append(jobs, &MineJob{Source: "trytes", Trits: trits})
	}
	if config.InputFile != "" {
		file, err := os.Open(config.InputFile)
		if err != nil {
			return nil, errors.Wrapf(err, "LoadJobs: ")
		}
		defer file.Close()

		fileJobs, err := ParseMessages(config.InputFile, file)
		if err != nil {
			return nil, errors.Wrapf(err, "LoadJobs: ")
		}
		jobs = append(jobs, fileJobs...)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("LoadJobs: Nothing to do, set --trytes or --input-file")
	}
	return jobs, nil
}
