package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bitlatte/projman/internal/config"
	"github.com/Bitlatte/projman/internal/manifest"
	"github.com/Bitlatte/projman/internal/model"
	"github.com/Bitlatte/projman/internal/schema"
)

var errValidationFailed = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Checks the data files read by the page scripts",
	Long: `The validate command checks the generated projects manifest and the
footer data file against the shapes the page-side scripts expect. The
manifest must also be sorted by title. A missing footer file is only a
warning, because the footer keeps its static markup in that case.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(osfs.New(appConfig.Root), appConfig)
	},
}

func runValidate(fsys billy.Filesystem, cfg config.Config) error {
	manifestOK := validateManifestFile(fsys, cfg)
	footerOK := validateFooterFile(fsys, cfg)
	if !manifestOK || !footerOK {
		return errValidationFailed
	}
	logger.Info("data files are valid")
	return nil
}

func validateManifestFile(fsys billy.Filesystem, cfg config.Config) bool {
	data, err := util.ReadFile(fsys, cfg.OutputPath)
	if err != nil {
		logger.Error("cannot read manifest", zap.String("path", cfg.OutputPath), zap.Error(err))
		return false
	}
	if !reportSchema(schema.Manifest, cfg.OutputPath, data) {
		return false
	}

	var records model.Manifest
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Error("cannot decode manifest", zap.String("path", cfg.OutputPath), zap.Error(err))
		return false
	}
	tag, err := cfg.LocaleTag()
	if err != nil {
		logger.Error("invalid locale", zap.Error(err))
		return false
	}
	if !manifest.IsSorted(records, tag) {
		logger.Error("manifest is not sorted by title",
			zap.String("path", cfg.OutputPath),
			zap.Strings("titles", records.Titles()))
		return false
	}
	logger.Info("manifest ok", zap.String("path", cfg.OutputPath), zap.Int("count", len(records)))
	return true
}

func validateFooterFile(fsys billy.Filesystem, cfg config.Config) bool {
	data, err := util.ReadFile(fsys, cfg.FooterPath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("footer data not found, footer keeps its static markup", zap.String("path", cfg.FooterPath))
		return true
	}
	if err != nil {
		logger.Error("cannot read footer data", zap.String("path", cfg.FooterPath), zap.Error(err))
		return false
	}
	if !reportSchema(schema.Footer, cfg.FooterPath, data) {
		return false
	}

	var footer model.FooterData
	if err := json.Unmarshal(data, &footer); err != nil {
		logger.Error("cannot decode footer data", zap.String("path", cfg.FooterPath), zap.Error(err))
		return false
	}
	if footer.Contact == nil || footer.Contact.Email == "" {
		logger.Warn("footer data has no contact email", zap.String("path", cfg.FooterPath))
	}
	if footer.Credit != nil && (footer.Credit.Text == "" || footer.Credit.Href == "") {
		logger.Warn("footer credit needs text and href to be shown", zap.String("path", cfg.FooterPath))
	}
	logger.Info("footer data ok", zap.String("path", cfg.FooterPath), zap.Int("socialLinks", len(footer.Social)))
	return true
}

func reportSchema(name, path string, data []byte) bool {
	res, err := schema.Validate(name, data)
	if err != nil {
		logger.Error("cannot validate file", zap.String("path", path), zap.Error(err))
		return false
	}
	for _, verr := range res.Errors {
		logger.Error(fmt.Sprintf("%s does not match the %s schema", path, name),
			zap.String("field", verr.Path),
			zap.String("problem", verr.Message))
	}
	return res.Valid
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
