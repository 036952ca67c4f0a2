package extract

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Item is one named input of a batch.
type Item struct {
	Name string
	Data []byte
}

// FileResult is the output of one successful batch item.
type FileResult struct {
	File       string                `json:"file"`
	Rectangles []IdentifiedRectangle `json:"rectangles"`
}

// FileError describes one failed batch item.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`

	// Err is the underlying error, kept for transports that classify
	// failures with Kind.
	Err error `json:"-"`
}

// BatchResult is the outcome of a batch. Both slices are non-nil and keep
// the relative order of the input items.
type BatchResult struct {
	Results []FileResult `json:"results"`
	Errors  []FileError  `json:"errors"`
}

// outcome is one item's slot while the batch runs.
type outcome struct {
	rects []IdentifiedRectangle
	err   error
}

// ExtractBatch processes uploaded items on a bounded worker pool.
//
// A failing item produces an Errors entry and never affects the others.
// Once ctx is done no further items are started; items not started are
// reported as errors carrying ctx.Err(). Items already running finish.
func (e *Extractor) ExtractBatch(ctx context.Context, items []Item) *BatchResult {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return e.runBatch(ctx, names, func(i int) ([]IdentifiedRectangle, error) {
		return e.ExtractBytes(items[i].Name, items[i].Data)
	})
}

// ExtractFiles is ExtractBatch for images already on disk. Entries are
// reported under the path they were requested with.
func (e *Extractor) ExtractFiles(ctx context.Context, paths []string) *BatchResult {
	return e.runBatch(ctx, paths, func(i int) ([]IdentifiedRectangle, error) {
		return e.ExtractFile(paths[i])
	})
}

func (e *Extractor) runBatch(ctx context.Context, names []string, process func(i int) ([]IdentifiedRectangle, error)) *BatchResult {
	slots := make([]outcome, len(names))

	var g errgroup.Group
	g.SetLimit(e.workers)

	for i := range names {
		if err := ctx.Err(); err != nil {
			slots[i].err = err
			continue
		}
		g.Go(func() error {
			rects, err := process(i)
			slots[i] = outcome{rects: rects, err: err}
			return nil
		})
	}
	g.Wait()

	result := &BatchResult{
		Results: make([]FileResult, 0, len(names)),
		Errors:  make([]FileError, 0),
	}
	for i, name := range names {
		s := slots[i]
		if s.err != nil {
			e.log("Error processing file %s: %v", name, s.err)
			result.Errors = append(result.Errors, FileError{
				File:  name,
				Error: s.err.Error(),
				Err:   s.err,
			})
			continue
		}
		result.Results = append(result.Results, FileResult{
			File:       name,
			Rectangles: s.rects,
		})
	}
	return result
}
