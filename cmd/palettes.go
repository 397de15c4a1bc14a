package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/bivarmap/internal/palette"
)

var palettesFile string

var palettesCmd = &cobra.Command{
	Use:   "palettes",
	Short: "List available color palettes",
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println("Built-in palettes:")
		for _, name := range palette.Names() {
			ramp, err := palette.Get(name)
			if err != nil {
				return err
			}
			fmt.Printf("  %-12s %s\n", name, strings.Join(ramp, " "))
		}

		if palettesFile != "" {
			ramps, err := palette.LoadFile(palettesFile)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(ramps))
			for name := range ramps {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Printf("\nPalettes from %s:\n", palettesFile)
			for _, name := range names {
				fmt.Printf("  %-12s %s\n", name, strings.Join(ramps[name], " "))
			}
		}
		return nil
	},
}

func init() {
	palettesCmd.Flags().StringVar(&palettesFile, "palette-file", "", "YAML file with user-defined palettes")
	rootCmd.AddCommand(palettesCmd)
}
