package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/bivarmap/internal/model"
)

var (
	batchConcurrency int
	batchPaletteFile string
)

// batchManifest is the on-disk layout of a batch file: a list of
// render jobs under a single key.
type batchManifest struct {
	Maps []model.RenderJob `yaml:"maps"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml>",
	Short: "Render every map in a YAML manifest",
	Long:  "Reads a manifest of render jobs and builds them concurrently. Individual failures are recorded per run and do not abort the batch.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "read manifest %s", args[0])
		}
		var manifest batchManifest
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return eris.Wrapf(err, "parse manifest %s", args[0])
		}
		if len(manifest.Maps) == 0 {
			zap.L().Info("manifest has no maps")
			return nil
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		loader := newBoundaryLoader(st)

		zap.L().Info("processing batch",
			zap.Int("maps", len(manifest.Maps)),
			zap.Int("concurrency", batchConcurrency),
		)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchConcurrency)

		var succeeded, failed atomic.Int64

		for _, job := range manifest.Maps {
			job := job
			g.Go(func() error {
				log := zap.L().With(zap.String("output", job.Output))

				run, err := executeJob(gctx, st, loader, job, batchPaletteFile, 0)
				if err != nil {
					failed.Add(1)
					log.Error("render failed", zap.Error(err))
					return nil // don't abort batch on individual failure
				}

				succeeded.Add(1)
				log.Info("render complete", zap.String("run_id", run.ID))
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "batch processing")
		}

		zap.L().Info("batch complete",
			zap.Int64("succeeded", succeeded.Load()),
			zap.Int64("failed", failed.Load()),
		)

		if failed.Load() > 0 {
			return fmt.Errorf("%d of %d maps failed", failed.Load(), len(manifest.Maps))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "max maps rendered in parallel")
	batchCmd.Flags().StringVar(&batchPaletteFile, "palette-file", "", "YAML file with user-defined palettes")
	rootCmd.AddCommand(batchCmd)
}
