// Command carprice runs the advertisement price study once: it loads the
// table, applies the filter chain, renders the descriptive figures, fits
// the extra-trees price model and reports metrics plus feature
// importances. The process exits after the report; nothing persists.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/carprice/config"
	"github.com/YuminosukeSato/carprice/pipeline"
	"github.com/YuminosukeSato/carprice/pkg/log"
)

func main() {
	cfg := config.Load()

	var (
		dataPath string
		outDir   string
	)

	root := &cobra.Command{
		Use:          "carprice",
		Short:        "One-shot price study over a used-car advertisement table",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetupLogger(cfg.LogLevel)
			if dataPath == "" {
				dataPath = cfg.DataPath
			}
			if outDir == "" {
				outDir = cfg.OutDir
			}
			_, err := pipeline.Run(dataPath, outDir)
			return err
		},
	}
	root.Flags().StringVar(&dataPath, "data", "", "advertisement CSV to load (default $CARPRICE_DATA)")
	root.Flags().StringVar(&outDir, "out", "", "directory for rendered figures (default $CARPRICE_OUT)")

	if err := root.Execute(); err != nil {
		log.GetLogger().Error("run failed", err)
		os.Exit(1)
	}
}
