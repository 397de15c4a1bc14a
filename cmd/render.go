package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bivarmap/internal/bivar"
	"github.com/sells-group/bivarmap/internal/boundary"
	"github.com/sells-group/bivarmap/internal/fetcher"
	"github.com/sells-group/bivarmap/internal/frame"
	"github.com/sells-group/bivarmap/internal/model"
	"github.com/sells-group/bivarmap/internal/palette"
	"github.com/sells-group/bivarmap/internal/render"
	"github.com/sells-group/bivarmap/internal/store"
)

var (
	renderTable       string
	renderBoundary    string
	renderBoundaryKey string
	renderXCol        string
	renderYCol        string
	renderIDCol       string
	renderNameCol     string
	renderPalette     string
	renderPaletteFile string
	renderTitle       string
	renderOut         string
	renderWidth       float64
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Build a bivariate choropleth map",
	Long:  "Loads a table and a boundary file, classifies the two variables into terciles, and writes the composed map as HTML (or JSON when the output path ends in .json).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		job := model.RenderJob{
			Title:       renderTitle,
			TablePath:   renderTable,
			Boundary:    renderBoundary,
			PropertyKey: renderBoundaryKey,
			XCol:        renderXCol,
			YCol:        renderYCol,
			IDCol:       renderIDCol,
			NameCol:     renderNameCol,
			Palette:     renderPalette,
			Output:      renderOut,
		}

		run, err := executeJob(ctx, st, newBoundaryLoader(st), job, renderPaletteFile, renderWidth)
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %s (run %s)\n", run.OutputPath, run.ID)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderTable, "table", "", "path to the CSV or XLSX data table (required)")
	renderCmd.Flags().StringVar(&renderBoundary, "boundary", "", "boundary source: GeoJSON/shapefile path or http(s)/ftp URL (required)")
	renderCmd.Flags().StringVar(&renderBoundaryKey, "boundary-key", "", "feature property to use as the join id (default: feature ids as-is)")
	renderCmd.Flags().StringVar(&renderXCol, "x-col", "x", "table column for the first variable")
	renderCmd.Flags().StringVar(&renderYCol, "y-col", "y", "table column for the second variable")
	renderCmd.Flags().StringVar(&renderIDCol, "id-col", "id", "table column joining rows to boundary features")
	renderCmd.Flags().StringVar(&renderNameCol, "name-col", "name", "table column holding display names")
	renderCmd.Flags().StringVar(&renderPalette, "palette", "pink-blue", "palette name")
	renderCmd.Flags().StringVar(&renderPaletteFile, "palette-file", "", "YAML file with user-defined palettes")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "map title")
	renderCmd.Flags().StringVar(&renderOut, "out", "map.html", "output path (.html or .json)")
	renderCmd.Flags().Float64Var(&renderWidth, "width", 0, "plot width in pixels (default from config)")

	_ = renderCmd.MarkFlagRequired("table")
	_ = renderCmd.MarkFlagRequired("boundary")

	rootCmd.AddCommand(renderCmd)
}

// executeJob runs one render job end to end with run bookkeeping: the
// run is recorded before work starts, marked running, and finished as
// complete or failed. The returned run reflects the final state.
func executeJob(ctx context.Context, st store.Store, loader *boundary.Loader, job model.RenderJob, paletteFile string, width float64) (*model.Run, error) {
	run, err := st.CreateRun(ctx, job)
	if err != nil {
		return nil, eris.Wrap(err, "record run")
	}
	if err := st.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning, ""); err != nil {
		return nil, eris.Wrap(err, "record run")
	}

	spec, err := buildMap(ctx, loader, job, paletteFile, width)
	if err == nil {
		err = writeSpec(spec, job.Output)
	}
	if err != nil {
		if uErr := st.UpdateRunStatus(ctx, run.ID, model.RunStatusFailed, err.Error()); uErr != nil {
			zap.L().Warn("failed to record run failure", zap.String("run_id", run.ID), zap.Error(uErr))
		}
		return nil, err
	}

	if err := st.CompleteRun(ctx, run.ID, job.Output); err != nil {
		return nil, eris.Wrap(err, "record run")
	}
	return st.GetRun(ctx, run.ID)
}

// buildRunAsync drives an already-recorded run through the build, for
// callers that created the run record themselves.
func buildRunAsync(ctx context.Context, st store.Store, loader *boundary.Loader, runID string, job model.RenderJob) error {
	if err := st.UpdateRunStatus(ctx, runID, model.RunStatusRunning, ""); err != nil {
		return eris.Wrap(err, "record run")
	}

	spec, err := buildMap(ctx, loader, job, "", 0)
	if err == nil {
		err = writeSpec(spec, job.Output)
	}
	if err != nil {
		if uErr := st.UpdateRunStatus(ctx, runID, model.RunStatusFailed, err.Error()); uErr != nil {
			zap.L().Warn("failed to record run failure", zap.String("run_id", runID), zap.Error(uErr))
		}
		return err
	}

	return st.CompleteRun(ctx, runID, job.Output)
}

// buildMap loads the job's inputs and composes the render spec.
func buildMap(ctx context.Context, loader *boundary.Loader, job model.RenderJob, paletteFile string, width float64) (*bivar.RenderSpec, error) {
	f, err := frame.LoadTable(ctx, job.TablePath, fetcher.CSVOptions{TrimSpace: true})
	if err != nil {
		return nil, err
	}

	colors, err := palette.Resolve(job.Palette, paletteFile)
	if err != nil {
		return nil, err
	}

	fc, err := loader.Load(ctx, job.Boundary)
	if err != nil {
		return nil, err
	}
	if job.PropertyKey != "" {
		fc, err = boundary.AttachIDs(fc, job.PropertyKey)
		if err != nil {
			return nil, err
		}
	}

	bcfg := cfg.Map.ToBivar()
	if job.Title != "" {
		bcfg.PlotTitle = job.Title
	}
	if width > 0 {
		bcfg.Width = width
	}

	opts := bivar.ComposeOptions{
		XCol:    job.XCol,
		YCol:    job.YCol,
		IDCol:   job.IDCol,
		NameCol: job.NameCol,
	}
	return bivar.Compose(f, colors, fc, opts, bcfg)
}

// writeSpec dispatches on the output extension: .json exports the raw
// spec, anything else gets the self-contained HTML page.
func writeSpec(spec *bivar.RenderSpec, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return render.WriteJSON(spec, path)
	}
	return render.WriteHTML(spec, path)
}
