package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"dailies/internal/logging"
)

const defaultPoll = 250 * time.Millisecond

// Options controls a log read.
type Options struct {
	// Lines keeps only the last N matching lines of the existing file. Zero or
	// less keeps every line.
	Lines int
	// RunID keeps only lines that mention the run. Matching uses the short id
	// printed on console lines, so a full id and its prefix behave the same.
	RunID  string
	Follow bool
	Poll   time.Duration
}

func (o Options) match(line string) bool {
	return o.RunID == "" || strings.Contains(line, logging.ShortRunID(o.RunID))
}

// Tail writes the matching lines of the log at path to emit. A missing file
// is treated as empty. With Follow set it keeps polling for appended lines
// until ctx is done, which ends the read without error.
func Tail(ctx context.Context, path string, opts Options, emit func(string)) error {
	lines, offset, err := lastLines(path, opts)
	if err != nil {
		return err
	}
	for _, line := range lines {
		emit(line)
	}
	if !opts.Follow {
		return nil
	}

	poll := opts.Poll
	if poll <= 0 {
		poll = defaultPoll
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		lines, offset, err = readFrom(path, offset, opts)
		if err != nil {
			return err
		}
		for _, line := range lines {
			emit(line)
		}
	}
}

func lastLines(path string, opts Options) ([]string, int64, error) {
	file, err := open(path)
	if file == nil || err != nil {
		return nil, 0, err
	}
	defer file.Close()

	var ring []string
	if opts.Lines > 0 {
		ring = make([]string, 0, opts.Lines)
	}
	offset, err := scan(file, 0, func(line string) {
		if !opts.match(line) {
			return
		}
		if opts.Lines > 0 && len(ring) == opts.Lines {
			copy(ring, ring[1:])
			ring = ring[:len(ring)-1]
		}
		ring = append(ring, line)
	})
	return ring, offset, err
}

// readFrom returns the matching lines appended after offset. A file that
// shrank is read again from the start.
func readFrom(path string, offset int64, opts Options) ([]string, int64, error) {
	file, err := open(path)
	if file == nil || err != nil {
		return nil, 0, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}
	var lines []string
	next, err := scan(file, offset, func(line string) {
		if opts.match(line) {
			lines = append(lines, line)
		}
	})
	return lines, next, err
}

// scan reads complete lines from offset and returns the offset just past the
// last newline, so a partially written line is picked up on the next read.
func scan(file *os.File, offset int64, fn func(string)) (int64, error) {
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}
	reader := bufio.NewReaderSize(file, 64*1024)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return offset, nil
			}
			return offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		fn(strings.TrimRight(line, "\r\n"))
	}
}

func open(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("log path %q is a directory", path)
	}
	return file, nil
}
