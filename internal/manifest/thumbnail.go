package manifest

import (
	"strings"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"github.com/Bitlatte/projman/internal/config"
)

// ThumbnailResolver maps a slug to the public path of its thumbnail image,
// "<slug>-thumbnail.<ext>", trying extensions in priority order. The
// thumbnails directory is listed once, on first use.
type ThumbnailResolver struct {
	fs         billy.Filesystem
	dir        string
	prefix     string
	fallback   string
	extensions []string
	logger     *zap.Logger

	listed  bool
	files   map[string]struct{}
	listErr error
}

func NewThumbnailResolver(fsys billy.Filesystem, cfg config.Config, logger *zap.Logger) *ThumbnailResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThumbnailResolver{
		fs:         fsys,
		dir:        cfg.ThumbnailsDir,
		prefix:     cfg.ThumbnailPrefix,
		fallback:   cfg.FallbackThumbnail,
		extensions: cfg.ExtensionPriority,
		logger:     logger,
	}
}

// Resolve returns the thumbnail path for slug. The boolean reports whether
// the fallback thumbnail was used; that is never an error.
func (r *ThumbnailResolver) Resolve(slug string) (string, bool) {
	r.list()
	if r.listErr != nil {
		r.logger.Warn("cannot read thumbnails directory, using fallback",
			zap.String("slug", slug),
			zap.String("dir", r.dir),
			zap.Error(r.listErr))
		return r.fallback, true
	}

	for _, ext := range r.extensions {
		name := slug + "-thumbnail." + ext
		if _, ok := r.files[name]; ok {
			return sitePath(r.prefix, name), false
		}
	}

	r.logger.Warn("no thumbnail found, using fallback",
		zap.String("slug", slug),
		zap.String("fallback", r.fallback))
	return r.fallback, true
}

func (r *ThumbnailResolver) list() {
	if r.listed {
		return
	}
	r.listed = true

	entries, err := r.fs.ReadDir(r.dir)
	if err != nil {
		r.listErr = err
		return
	}
	r.files = make(map[string]struct{}, len(entries))
	for _, e := range entries {
		r.files[e.Name()] = struct{}{}
	}
}

// sitePath joins a site-absolute prefix and a file name.
func sitePath(prefix, name string) string {
	return strings.TrimRight(prefix, "/") + "/" + name
}
