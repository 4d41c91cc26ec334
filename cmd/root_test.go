package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/projman/internal/manifest"
	"github.com/Bitlatte/projman/internal/model"
)

func execute(t *testing.T, root string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("PROJMAN_ROOT", root)
	cfgFile = ""
	dryRun = false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "projects-collection", "zebra.html"), `<title>Zebra Project</title>`)
	writeFile(t, filepath.Join(root, "projects-collection", "alpha.html"),
		`<title>alpha site</title><meta name="description" content="First.">`)
	writeFile(t, filepath.Join(root, "assets", "images", "project-images", "project-thumbnail-images", "alpha-thumbnail.webp"), "img")
	return root
}

func readRecords(t *testing.T, path string) model.Manifest {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m model.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestRootBuildsManifest(t *testing.T) {
	root := newSite(t)

	_, stderr, err := execute(t, root)
	require.NoError(t, err)

	records := readRecords(t, filepath.Join(root, "assets", "data", "projects.json"))
	require.Len(t, records, 2)
	assert.Equal(t, []string{"alpha site", "Zebra Project"}, records.Titles())
	assert.Equal(t, "/assets/images/project-images/project-thumbnail-images/alpha-thumbnail.webp", records[0].Thumbnail)
	assert.Equal(t, "/projects-collection/zebra.html", records[1].Href)
	assert.Contains(t, stderr, "no thumbnail found, using fallback")
	assert.Contains(t, stderr, "generated manifest")
}

func TestBuildSubcommand(t *testing.T) {
	root := newSite(t)

	_, _, err := execute(t, root, "build")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "assets", "data", "projects.json"))
}

func TestBuildMissingSourceDir(t *testing.T) {
	root := t.TempDir()

	_, _, err := execute(t, root, "build")
	require.ErrorIs(t, err, manifest.ErrSourceDirMissing)
	assert.NoFileExists(t, filepath.Join(root, "assets", "data", "projects.json"))
}

func TestBuildDryRun(t *testing.T) {
	root := newSite(t)

	stdout, _, err := execute(t, root, "build", "--dry-run")
	require.NoError(t, err)

	var records model.Manifest
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	assert.Len(t, records, 2)
	assert.NoFileExists(t, filepath.Join(root, "assets", "data", "projects.json"))
}

func TestRootRejectsArguments(t *testing.T) {
	_, _, err := execute(t, t.TempDir(), "extra")
	assert.Error(t, err)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	root := newSite(t)
	cfgPath := filepath.Join(t.TempDir(), "projman.yaml")
	writeFile(t, cfgPath, "outputPath: public/projects.json\nlog:\n  format: json\n")

	_, stderr, err := execute(t, root, "--config", cfgPath)
	require.NoError(t, err)
	assert.Len(t, readRecords(t, filepath.Join(root, "public", "projects.json")), 2)
	assert.Contains(t, stderr, `"msg":"generated manifest"`)
}

func TestInvalidConfigIsFatal(t *testing.T) {
	root := newSite(t)
	t.Setenv("PROJMAN_FALLBACKTHUMBNAIL", "relative.png")

	_, _, err := execute(t, root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallbackThumbnail")
}

func TestValidateAfterBuild(t *testing.T) {
	root := newSite(t)
	_, _, err := execute(t, root)
	require.NoError(t, err)

	_, stderr, err := execute(t, root, "validate")
	require.NoError(t, err)
	assert.Contains(t, stderr, "footer data not found")
	assert.Contains(t, stderr, "manifest ok")
}

func TestValidateFooter(t *testing.T) {
	root := newSite(t)
	_, _, err := execute(t, root)
	require.NoError(t, err)

	footer := filepath.Join(root, "assets", "data", "footer.json")
	writeFile(t, footer, `{"contact":{"email":"hi@example.com"},"social":[{"href":"https://example.com","label":"Example"}]}`)
	_, _, err = execute(t, root, "validate")
	require.NoError(t, err)

	writeFile(t, footer, `{"social":[{"label":"No link"}]}`)
	_, stderr, err := execute(t, root, "validate")
	require.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, stderr, "does not match the footer schema")
}

func TestValidateRejectsUnsortedManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "assets", "data", "projects.json"), `[
  {"title": "Zebra", "description": "d", "href": "/p/z.html", "thumbnail": "/t/z.png", "slug": "z"},
  {"title": "alpha", "description": "d", "href": "/p/a.html", "thumbnail": "/t/a.png", "slug": "a"}
]`)

	_, stderr, err := execute(t, root, "validate")
	require.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, stderr, "manifest is not sorted by title")
	assert.Contains(t, stderr, `"Zebra"`)
}

func TestValidateMissingManifest(t *testing.T) {
	_, stderr, err := execute(t, t.TempDir(), "validate")
	require.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, stderr, "cannot read manifest")
}
