package manifest

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
)

const htmlExt = ".html"

// Scan lists the project pages in dir: regular files (symlinks are followed)
// whose name ends in ".html" and does not start with a dot. The suffix match
// is case-sensitive, so "page.HTML" is not a project page. Names are returned
// in lexical order. Page names that cannot be stat'ed (dangling symlinks,
// permission errors) are returned as skips rather than dropped.
func Scan(fsys billy.Filesystem, dir string) ([]string, []Skip, error) {
	info, err := fsys.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrSourceDirMissing, dir)
		}
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrSourceDirUnreadable, dir, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s is not a directory", ErrSourceDirUnreadable, dir)
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrSourceDirUnreadable, dir, err)
	}

	var (
		names   []string
		skipped []Skip
	)
	for _, entry := range entries {
		name := entry.Name()
		if !isProjectPage(name) {
			continue
		}
		// ReadDir does not follow symlinks; Stat does.
		st, err := fsys.Stat(fsys.Join(dir, name))
		if err != nil {
			skipped = append(skipped, Skip{File: name, Reason: SkipStat, Err: err})
			continue
		}
		if !st.Mode().IsRegular() {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].File < skipped[j].File })
	return names, skipped, nil
}

func isProjectPage(name string) bool {
	return strings.HasSuffix(name, htmlExt) && !strings.HasPrefix(name, ".")
}

// Slug is the file name without its ".html" suffix, otherwise verbatim.
func Slug(filename string) string {
	return strings.TrimSuffix(filename, htmlExt)
}
