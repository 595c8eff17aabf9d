package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"masklint/internal/diag"
	"masklint/internal/source"
)

// DirResult is the per-file outcome of a directory run. Files that
// failed to load keep a nil Tree and carry the I/O failure as a
// diagnostic on an empty placeholder file, so one unreadable file
// never sinks the run.
type DirResult struct {
	Path   string
	FileID source.FileID
	Tree   *Result
	Bag    *diag.Bag
}

// ListMaskfiles returns every *.md file under dir, sorted for
// deterministic processing order.
func ListMaskfiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// LintDir lints every maskfile under dir in parallel. Each file runs
// the full independent pipeline; results land in per-index slots so no
// synchronization beyond the errgroup is needed and the output order
// matches the sorted file list exactly.
func LintDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []DirResult, error) {
	files, err := ListMaskfiles(dir)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSet()
	fileSet.SetBaseDir(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// Loading up front keeps the FileSet single-writer; the workers
	// only read it. Unreadable files get an empty placeholder entry so
	// their failure diagnostics carry a span every renderer can resolve.
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			fileIDs[path] = fileSet.AddVirtual(path, nil)
			continue
		}
		fileIDs[path] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageScan, Status: StatusQueued})
	}

	results := make([]DirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			started := time.Now()
			emit(opts.Progress, Event{File: path, Stage: StageScan, Status: StatusWorking})

			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(opts.maxDiagnostics())
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: fileIDs[path]},
					"failed to load file: "+loadErr.Error()))
				results[i] = DirResult{Path: path, FileID: fileIDs[path], Bag: bag}
				emit(opts.Progress, Event{File: path, Status: StatusError, Err: loadErr, Elapsed: time.Since(started)})
				return nil
			}

			fileOpts := opts
			fileOpts.Progress = nil
			res, err := LintFile(gctx, fileSet, fileIDs[path], fileOpts)
			if err != nil {
				return err
			}
			results[i] = DirResult{Path: path, FileID: res.FileID, Tree: res, Bag: res.Bag}
			emit(opts.Progress, Event{File: path, Stage: StageRules, Status: StatusDone, Elapsed: time.Since(started)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
