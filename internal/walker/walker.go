// Package walker discovers the source files of a project: it honors .gitignore
// files, skips hidden entries, and applies the extension, file name and
// directory filters from fta.json.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
)

// Options selects which files a walk returns.
type Options struct {
	// Extensions are matched as file name suffixes. Empty accepts every file.
	Extensions []string

	// ExcludeFilenames are glob patterns matched against the base name.
	ExcludeFilenames []string

	// ExcludeDirectories are slash separated path prefixes relative to the
	// root, such as "/dist".
	ExcludeDirectories []string

	// NoGitignore disables .gitignore and .git/info/exclude handling.
	NoGitignore bool
}

// File is one candidate source file.
type File struct {
	Path    string // as given to the filesystem
	RelPath string // slash separated, relative to the walk root
}

// Walker applies Options to directory trees.
type Walker struct {
	opts      Options
	fileGlobs []glob.Glob
	dirs      []string
}

// New compiles the filters in opts.
func New(opts Options) (*Walker, error) {
	w := &Walker{opts: opts}
	for _, p := range opts.ExcludeFilenames {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		w.fileGlobs = append(w.fileGlobs, g)
	}
	for _, d := range opts.ExcludeDirectories {
		d = "/" + strings.Trim(filepath.ToSlash(d), "/")
		if d != "/" {
			w.dirs = append(w.dirs, d)
		}
	}
	return w, nil
}

// Walk is New followed by Walker.Walk.
func Walk(ctx context.Context, root string, opts Options) ([]File, error) {
	w, err := New(opts)
	if err != nil {
		return nil, err
	}
	return w.Walk(ctx, root)
}

// ignoreScope is a compiled ignore file and the directory it applies under.
type ignoreScope struct {
	dir     string // slash separated, relative to the root; "" for the root
	matcher *ignore.GitIgnore
}

// Walk returns the accepted files under root in lexical order.
func (w *Walker) Walk(ctx context.Context, root string) ([]File, error) {
	var files []File
	var scopes []ignoreScope

	if !w.opts.NoGitignore {
		if m := loadIgnore(filepath.Join(root, ".git", "info", "exclude")); m != nil {
			scopes = append(scopes, ignoreScope{matcher: m})
		}
	}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				scopes = w.enterDir(scopes, p, "")
				return nil
			}
			if isHidden(d.Name()) || w.excludedDir(rel) || ignored(scopes, rel, true) {
				return filepath.SkipDir
			}
			scopes = w.enterDir(scopes, p, rel)
			return nil
		}

		if isHidden(d.Name()) || !d.Type().IsRegular() {
			return nil
		}
		if !w.acceptName(d.Name()) || w.excludedDir(rel) || ignored(scopes, rel, false) {
			return nil
		}
		files = append(files, File{Path: p, RelPath: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Accept reports whether the file at rel (slash separated, relative to a walk
// root) passes the extension, name and directory filters. Ignore files are not
// consulted.
func (w *Walker) Accept(rel string) bool {
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "/")
	for _, part := range strings.Split(rel, "/") {
		if isHidden(part) {
			return false
		}
	}
	return w.acceptName(path.Base(rel)) && !w.excludedDir(rel)
}

// SkipDir reports whether a walk would never descend into the directory at
// rel because it is hidden or excluded. Ignore files are not consulted.
func (w *Walker) SkipDir(rel string) bool {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	if rel == "" || rel == "." {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		if isHidden(part) {
			return true
		}
	}
	return w.excludedDir(rel)
}

// enterDir drops scopes that no longer apply and loads dir's .gitignore.
func (w *Walker) enterDir(scopes []ignoreScope, abs, rel string) []ignoreScope {
	kept := scopes[:0:0]
	for _, s := range scopes {
		if s.dir == "" || rel == s.dir || strings.HasPrefix(rel, s.dir+"/") {
			kept = append(kept, s)
		}
	}
	if w.opts.NoGitignore {
		return kept
	}
	if m := loadIgnore(filepath.Join(abs, ".gitignore")); m != nil {
		kept = append(kept, ignoreScope{dir: rel, matcher: m})
	}
	return kept
}

func (w *Walker) acceptName(name string) bool {
	if len(w.opts.Extensions) > 0 {
		matched := false
		for _, ext := range w.opts.Extensions {
			if strings.HasSuffix(name, ext) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, g := range w.fileGlobs {
		if g.Match(name) {
			return false
		}
	}
	return true
}

// excludedDir reports whether rel sits at or below an excluded directory.
func (w *Walker) excludedDir(rel string) bool {
	abs := "/" + rel
	for _, d := range w.dirs {
		if abs == d || strings.HasPrefix(abs, d+"/") {
			return true
		}
	}
	return false
}

func ignored(scopes []ignoreScope, rel string, isDir bool) bool {
	for _, s := range scopes {
		local := rel
		if s.dir != "" {
			if !strings.HasPrefix(rel, s.dir+"/") {
				continue
			}
			local = strings.TrimPrefix(rel, s.dir+"/")
		}
		if s.matcher.MatchesPath(local) || (isDir && s.matcher.MatchesPath(local+"/")) {
			return true
		}
	}
	return false
}

func loadIgnore(p string) *ignore.GitIgnore {
	if _, err := os.Stat(p); err != nil {
		return nil
	}
	m, err := ignore.CompileIgnoreFile(p)
	if err != nil {
		return nil
	}
	return m
}

func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".") && name != ".."
}
