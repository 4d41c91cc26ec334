package cmd

import (
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bitlatte/projman/internal/config"
	"github.com/Bitlatte/projman/internal/manifest"
)

var dryRun bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the projects manifest",
	Long: `The build command lists the .html pages in the projects directory,
extracts each page's <title> and meta description, resolves its
<slug>-thumbnail image and writes the manifest, sorted by title.

A page that cannot be read is reported and left out; the build still
succeeds. A missing projects directory fails the build and leaves the
existing manifest untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuildProcess(cmd, appConfig, dryRun)
	},
}

func runBuildProcess(cmd *cobra.Command, cfg config.Config, printOnly bool) error {
	logger.Info("building projects manifest", zap.String("root", cfg.Root))

	b, err := manifest.NewBuilder(osfs.New(cfg.Root), cfg, logger)
	if err != nil {
		return err
	}

	if printOnly {
		res, err := b.Collect()
		if err != nil {
			return err
		}
		data, err := manifest.Encode(res.Records)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	res, err := b.Build()
	if err != nil {
		return err
	}
	if len(res.Skipped) > 0 {
		logger.Warn("some project pages were left out", zap.Int("skipped", len(res.Skipped)))
	}
	logger.Info("build complete")
	return nil
}

func init() {
	buildCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the manifest to stdout instead of writing it")
	rootCmd.AddCommand(buildCmd)
}
