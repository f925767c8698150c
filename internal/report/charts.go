package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/autompg-cli/internal/chart"
	"github.com/KaramelBytes/autompg-cli/internal/utils"
)

// WriteCharts renders every raster-capable figure into dir concurrently and
// returns the written paths in document order. Heatmaps are skipped.
func (r *Report) WriteCharts(ctx context.Context, dir string, format chart.Format, size chart.Size) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	paths := make([]string, len(r.figures))
	for i, nf := range r.figures {
		i, nf := i, nf
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			err := chart.Render(&buf, nf.Figure, format, size)
			if errors.Is(err, chart.ErrUnsupported) || errors.Is(err, chart.ErrNoData) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s: %w", nf.Name, err)
			}
			p := filepath.Join(dir, nf.Name+"."+string(format))
			if err := utils.SafeWriteFile(p, buf.Bytes()); err != nil {
				return fmt.Errorf("%s: %w", nf.Name, err)
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := paths[:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
