package sessions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/seamosgenios/panel/schema"
)

// Reader reads whole files. It allows ingestion to be tested without touching disk.
type Reader interface {
	ReadFile(name string) ([]byte, error)
}

// OSReader reads from the local file system.
type OSReader struct{}

// ReadFile implements Reader.
func (OSReader) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// fileOutcome is what a worker reports for one file of a batch.
type fileOutcome struct {
	index   int
	session schema.Session
	err     error
}

// ReadBatch reads and parses files concurrently with at most workers readers.
// It returns only after every file has finished, successfully or not. A failed
// read still counts toward Completed and is reported in Failures, so a batch
// always completes. Parsed sessions keep the input order and have no IDs yet.
func ReadBatch(ctx context.Context, reader Reader, paths []string, workers int, now time.Time) schema.BatchResult {
	result := schema.BatchResult{
		BatchID:   uuid.NewString(),
		Requested: len(paths),
	}
	if len(paths) == 0 {
		return result
	}
	if workers < 1 {
		workers = 1
	}

	jobCh := make(chan int, len(paths))
	outCh := make(chan fileOutcome, len(paths))
	var wg sync.WaitGroup

	for range min(workers, len(paths)) {
		wg.Go(func() {
			for i := range jobCh {
				outCh <- readOne(ctx, reader, i, paths[i], now)
			}
		})
	}

	for i := range paths {
		jobCh <- i
	}
	close(jobCh)

	wg.Wait()
	close(outCh)

	outcomes := make([]fileOutcome, 0, len(paths))
	for o := range outCh {
		outcomes = append(outcomes, o)
		result.Completed++
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].index < outcomes[j].index })

	for _, o := range outcomes {
		if o.err != nil {
			result.Failures = append(result.Failures, schema.IngestFailure{Path: paths[o.index], Err: o.err})
			continue
		}
		result.Sessions = append(result.Sessions, o.session)
	}
	return result
}

// readOne reads and parses a single file of a batch.
func readOne(ctx context.Context, reader Reader, index int, path string, now time.Time) fileOutcome {
	if err := ctx.Err(); err != nil {
		return fileOutcome{index: index, err: err}
	}
	data, err := reader.ReadFile(path)
	if err != nil {
		return fileOutcome{index: index, err: fmt.Errorf("read %s: %w", path, err)}
	}
	session, err := ParseFile(string(data), path, now)
	if err != nil {
		return fileOutcome{index: index, err: fmt.Errorf("parse %s: %w", path, err)}
	}
	return fileOutcome{index: index, session: session}
}

// ExpandPaths turns files and directories into the list of attendance files to ingest.
// Directories contribute their *.csv entries sorted by name; files are kept as given.
func ExpandPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", p, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
				continue
			}
			files = append(files, filepath.Join(p, e.Name()))
		}
	}
	return files, nil
}
