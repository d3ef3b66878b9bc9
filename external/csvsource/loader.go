package csvsource

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/afl-stats/internal/domain/source"
	"github.com/riskibarqy/afl-stats/internal/platform/logging"
)

const defaultWorkers = 4

type Config struct {
	Paths   map[source.Kind][]string
	Workers int
	Logger  *logging.Logger
}

// Loader reads raw rows from CSV files. Paths may be glob patterns.
type Loader struct {
	paths   map[source.Kind][]string
	workers int
	logger  *logging.Logger
}

func NewLoader(cfg Config) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	paths := make(map[source.Kind][]string, len(cfg.Paths))
	for kind, list := range cfg.Paths {
		paths[kind] = append([]string(nil), list...)
	}
	return &Loader{
		paths:   paths,
		workers: workers,
		logger:  logger,
	}
}

func (l *Loader) Load(ctx context.Context, kind source.Kind) ([]source.RawBatch, error) {
	paths, err := expand(l.paths[kind])
	if err != nil {
		return nil, err
	}
	return l.LoadFiles(ctx, kind, paths)
}

// LoadFiles decodes every file on a worker pool and returns one batch per
// file in the order given.
func (l *Loader) LoadFiles(ctx context.Context, kind source.Kind, paths []string) ([]source.RawBatch, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	workers := l.workers
	if workers > len(paths) {
		workers = len(paths)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, crerr.Wrap(err, "create csv worker pool")
	}
	defer pool.Release()

	batches := make([]source.RawBatch, len(paths))
	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		i, path := i, path
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			rows, err := ReadFile(path)
			if err != nil {
				errs[i] = err
				return
			}
			batches[i] = source.RawBatch{Kind: kind, Origin: path, Rows: rows}
		}); err != nil {
			wg.Done()
			return nil, crerr.Wrapf(err, "submit %s to csv worker pool", path)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	total := 0
	for _, b := range batches {
		total += len(b.Rows)
	}
	l.logger.InfoContext(ctx, "csv files loaded", "kind", string(kind), "files", len(paths), "rows", total)
	return batches, nil
}

// expand resolves glob patterns. A plain path that does not exist is kept so
// the read reports it.
func expand(patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if !strings.ContainsAny(pattern, "*?[") {
			out = append(out, pattern)
			continue
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, crerr.Wrapf(err, "expand %q", pattern)
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}

func ReadFile(path string) ([]source.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, crerr.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, crerr.Wrapf(err, "read %s", path)
	}
	return rows, nil
}

// ReadRows decodes a CSV document with a header line. Blank header cells
// become column_N, repeated names get a .N suffix, and short rows simply
// lack the trailing columns.
func ReadRows(r io.Reader) ([]source.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, crerr.Wrap(err, "read header")
	}
	header = headerNames(header)

	rows := make([]source.Row, 0, 256)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, crerr.Wrapf(err, "read row %d", len(rows)+1)
		}
		if blank(record) {
			continue
		}
		row := make(source.Row, len(header))
		for i, value := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func headerNames(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, name := range raw {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n)
		} else {
			seen[name] = 1
		}
		out[i] = name
	}
	return out
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
