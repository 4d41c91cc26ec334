package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Bitlatte/projman/internal/config"
	"github.com/Bitlatte/projman/internal/model"
	"github.com/Bitlatte/projman/internal/schema"
)

// SkipReason classifies why a project page produced no record.
type SkipReason string

const (
	SkipStat     SkipReason = "stat"
	SkipRead     SkipReason = "read"
	SkipEncoding SkipReason = "encoding"
)

// Skip records a project page that was left out of the manifest.
type Skip struct {
	File   string
	Reason SkipReason
	Err    error
}

// Result is the outcome of one build pass.
type Result struct {
	Records            model.Manifest
	Skipped            []Skip
	FallbackThumbnails []string // slugs
	OutputPath         string
}

// Builder assembles the projects manifest from the pages in the source
// directory. A Builder is good for one pass; it keeps the thumbnail listing.
type Builder struct {
	fs     billy.Filesystem
	cfg    config.Config
	locale language.Tag
	logger *zap.Logger
	thumbs *ThumbnailResolver
}

func NewBuilder(fsys billy.Filesystem, cfg config.Config, logger *zap.Logger) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	tag, err := cfg.LocaleTag()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		fs:     fsys,
		cfg:    cfg,
		locale: tag,
		logger: logger,
		thumbs: NewThumbnailResolver(fsys, cfg, logger),
	}, nil
}

// Collect scans the source directory and returns the sorted records without
// writing anything.
func (b *Builder) Collect() (*Result, error) {
	files, unreadable, err := Scan(b.fs, b.cfg.SourceDir)
	if err != nil {
		return nil, err
	}
	b.logger.Info("found html files", zap.Int("count", len(files)), zap.String("dir", b.cfg.SourceDir))

	res := &Result{Records: model.Manifest{}}
	for _, skip := range unreadable {
		b.skip(res, skip)
	}
	for _, file := range files {
		b.logger.Info("processing", zap.String("file", file))

		rec, fallback, skip := b.process(file)
		if skip != nil {
			b.skip(res, *skip)
			continue
		}
		if fallback {
			res.FallbackThumbnails = append(res.FallbackThumbnails, rec.Slug)
		}
		res.Records = append(res.Records, rec)
		b.logger.Info("added", zap.String("title", rec.Title), zap.String("slug", rec.Slug))
	}

	SortRecords(res.Records, b.locale)
	return res, nil
}

// Build runs Collect and writes the manifest to the output path.
func (b *Builder) Build() (*Result, error) {
	res, err := b.Collect()
	if err != nil {
		return nil, err
	}

	data, err := Encode(res.Records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteManifest, err)
	}
	if err := checkContract(data); err != nil {
		return nil, err
	}
	if err := b.write(data); err != nil {
		return nil, err
	}
	res.OutputPath = b.cfg.OutputPath

	b.logger.Info("generated manifest",
		zap.Int("count", len(res.Records)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("fallbackThumbnails", len(res.FallbackThumbnails)),
		zap.String("output", res.OutputPath))
	return res, nil
}

func (b *Builder) skip(res *Result, skip Skip) {
	b.logger.Error("skipping file",
		zap.String("file", skip.File),
		zap.String("reason", string(skip.Reason)),
		zap.Error(skip.Err))
	res.Skipped = append(res.Skipped, skip)
}

func (b *Builder) process(file string) (model.ProjectRecord, bool, *Skip) {
	slug := Slug(file)

	content, err := b.readFile(b.fs.Join(b.cfg.SourceDir, file))
	if err != nil {
		return model.ProjectRecord{}, false, &Skip{File: file, Reason: SkipRead, Err: err}
	}
	meta, err := Extract(content, slug)
	if err != nil {
		return model.ProjectRecord{}, false, &Skip{File: file, Reason: SkipEncoding, Err: err}
	}
	thumb, fallback := b.thumbs.Resolve(slug)

	return model.ProjectRecord{
		Title:       meta.Title,
		Description: meta.Description,
		Href:        sitePath(b.cfg.HrefPrefix, file),
		Thumbnail:   thumb,
		Slug:        slug,
	}, fallback, nil
}

func (b *Builder) readFile(name string) ([]byte, error) {
	f, err := b.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// write replaces the manifest through a temporary file in the same
// directory, so readers see either the old or the new manifest.
func (b *Builder) write(data []byte) error {
	out := b.cfg.OutputPath
	dir := filepath.Dir(out)

	if _, err := b.fs.Stat(dir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("%w: %w", ErrWriteManifest, err)
		}
		if err := b.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create %s: %w", ErrWriteManifest, dir, err)
		}
		b.logger.Info("created directory", zap.String("dir", dir))
	}

	// The manifest is served to browsers, so it must stay world-readable.
	tmpName := b.fs.Join(dir, ".projman-"+uuid.NewString())
	if err := util.WriteFile(b.fs, tmpName, data, 0o644); err != nil {
		_ = b.fs.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrWriteManifest, err)
	}
	if err := b.fs.Rename(tmpName, out); err != nil {
		_ = b.fs.Remove(tmpName)
		return fmt.Errorf("%w: rename to %s: %w", ErrWriteManifest, out, err)
	}
	return nil
}

// SortRecords orders records by title using the collation rules of locale,
// ignoring case. Records with equal titles keep their relative order.
func SortRecords(records model.Manifest, locale language.Tag) {
	c := collate.New(locale, collate.IgnoreCase)
	sort.SliceStable(records, func(i, j int) bool {
		return c.CompareString(records[i].Title, records[j].Title) < 0
	})
}

// IsSorted reports whether records are in the order SortRecords produces.
func IsSorted(records model.Manifest, locale language.Tag) bool {
	c := collate.New(locale, collate.IgnoreCase)
	return sort.SliceIsSorted(records, func(i, j int) bool {
		return c.CompareString(records[i].Title, records[j].Title) < 0
	})
}

// Encode renders records as a 2-space indented JSON array without a trailing
// newline. HTML characters are written as-is.
func Encode(records model.Manifest) ([]byte, error) {
	if records == nil {
		records = model.Manifest{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func checkContract(data []byte) error {
	res, err := schema.ValidateManifest(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrContractViolation, err)
	}
	if res.Valid {
		return nil
	}
	msgs := make([]string, len(res.Errors))
	for i, e := range res.Errors {
		msgs[i] = e.String()
	}
	return fmt.Errorf("%w: %s", ErrContractViolation, strings.Join(msgs, "; "))
}
