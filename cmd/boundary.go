package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/bivarmap/internal/boundary"
)

var boundaryCmd = &cobra.Command{
	Use:   "boundary",
	Short: "Fetch and inspect boundary files",
}

// -- boundary fetch --

var boundaryFetchOut string

var boundaryFetchCmd = &cobra.Command{
	Use:   "fetch <source>",
	Short: "Download a boundary source and convert it to GeoJSON",
	Long:  "Resolves a boundary source (local GeoJSON, shapefile, ZIP archive, or http(s)/ftp URL), converts it to a GeoJSON feature collection, and writes it out. Remote bodies land in the boundary cache for later runs.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		fc, err := newBoundaryLoader(st).Load(ctx, args[0])
		if err != nil {
			return err
		}

		data, err := fc.MarshalJSON()
		if err != nil {
			return eris.Wrap(err, "boundary fetch: marshal")
		}
		if err := os.WriteFile(boundaryFetchOut, data, 0o644); err != nil {
			return eris.Wrapf(err, "boundary fetch: write %s", boundaryFetchOut)
		}

		fmt.Printf("Wrote %d features to %s\n", len(fc.Features), boundaryFetchOut)
		return nil
	},
}

// -- boundary inspect --

var boundaryInspectSample int

var boundaryInspectCmd = &cobra.Command{
	Use:   "inspect <source>",
	Short: "List the property keys available as join ids",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Inspection is read-only; skip the cache entirely.
		fc, err := newBoundaryLoader(nil).Load(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Features: %d\n", len(fc.Features))
		fmt.Println("Property keys:")
		for _, key := range boundary.PropertyKeys(fc, boundaryInspectSample) {
			fmt.Printf("  %s\n", key)
		}
		return nil
	},
}

func init() {
	boundaryFetchCmd.Flags().StringVar(&boundaryFetchOut, "out", "boundary.geojson", "output GeoJSON path")
	boundaryInspectCmd.Flags().IntVar(&boundaryInspectSample, "sample", 10, "number of features to sample for keys (0 = all)")

	boundaryCmd.AddCommand(boundaryFetchCmd)
	boundaryCmd.AddCommand(boundaryInspectCmd)
	rootCmd.AddCommand(boundaryCmd)
}
