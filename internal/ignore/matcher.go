package ignore

import (
	"io/fs"
	"os"
	"path/filepath"
	"weak"

	"github.com/bethropolis/ignorewalk/internal/errors"
	"github.com/bethropolis/ignorewalk/internal/gitignore"
	"github.com/bethropolis/ignorewalk/internal/pathutil"
	"github.com/puzpuzpuz/xsync/v3"
)

// cache maps the canonical path of an ancestor directory to its matcher.
// Entries are weak so matchers no walk references anymore can be
// collected.
type cache struct {
	m *xsync.MapOf[string, weak.Pointer[Ignore]]
}

func newCache() *cache {
	return &cache{m: xsync.NewMapOf[string, weak.Pointer[Ignore]]()}
}

// getOrBuild returns the live matcher for path, building and storing one
// with build when there is none. build runs under the bucket lock, so
// concurrent walks of roots with a shared ancestor read its ignore files
// once.
func (c *cache) getOrBuild(path string, build func() *Ignore) (ig *Ignore, hit bool) {
	c.m.Compute(path, func(old weak.Pointer[Ignore], loaded bool) (weak.Pointer[Ignore], bool) {
		if loaded {
			if prebuilt := old.Value(); prebuilt != nil {
				ig, hit = prebuilt, true
				return old, false
			}
		}
		ig = build()
		return weak.Make(ig), false
	})

	return ig, hit
}

// AddParents returns a matcher that carries the ignore files of every
// ancestor of path. Matchers for ancestors shared with earlier calls are
// reused, so they carry nothing specific to one root. The returned matcher
// is a copy of the nearest ancestor that records the canonical form of path
// as its absolute base. It is a no-op when no enabled source reads parent
// directories.
//
// AddParents panics when called on a matcher that has a parent.
func (ig *Ignore) AddParents(path string) (*Ignore, error) {
	opts := ig.opts
	if !opts.Parents && !opts.GitIgnore && !opts.GitExclude && !opts.GitGlobal {
		return ig, nil
	}
	if !ig.IsRoot() {
		panic("ignore: AddParents called on non-root matcher")
	}

	absoluteBase, err := canonicalize(path)
	if err != nil {
		// Ignore file errors are never fatal, so neither is a root that
		// cannot be resolved.
		ig.logger.Debug("ignore.AddParents: cannot resolve %q: %v", path, err)
		return ig, nil
	}

	ancestors := pathutil.Ancestors(absoluteBase)
	var errs errors.PartialBuilder
	cur := ig
	for i := len(ancestors) - 1; i >= 0; i-- {
		parent := ancestors[i]
		base := cur
		next, hit := ig.cache.getOrBuild(parent, func() *Ignore {
			child, err := base.addChildPath(parent)
			errs.MaybePush(err)
			child.isAbsoluteParent = true
			child.absoluteBase = ""
			child.hasGit = false
			if opts.RequireGit && opts.GitIgnore {
				child.hasGit = exists(filepath.Join(parent, ".git"))
			}
			return child
		})
		if hit {
			ig.logger.Debug("ignore.AddParents: reusing matcher for %s", parent)
		}
		cur = next
	}

	rooted := *cur
	rooted.absoluteBase = absoluteBase
	rooted.shared = cur

	return &rooted, errs.Err()
}

// AddChild returns the matcher for dir, a direct child of ig's directory.
// Errors from reading ignore files are swallowed, but rules that fail to
// compile are reported. The returned matcher is always usable.
func (ig *Ignore) AddChild(dir string) (*Ignore, error) {
	return ig.addChildPath(dir)
}

// Placeholder returns a matcher for dir that reads no files and only
// inherits from ig. Walkers push it for directories they do not descend
// into.
func (ig *Ignore) Placeholder(dir string) *Ignore {
	child := *ig
	child.dir = dir
	child.parent = ig
	child.isAbsoluteParent = false
	child.hasGit = false
	empty := gitignore.Empty()
	child.customIgnoreMatcher = empty
	child.ignoreMatcher = empty
	child.gitIgnoreMatcher = empty
	child.gitExcludeMatcher = empty

	return &child
}

func (ig *Ignore) addChildPath(dir string) (*Ignore, error) {
	opts := ig.opts

	var gitInfo fs.FileInfo
	if opts.RequireGit && (opts.GitIgnore || opts.GitExclude) {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			gitInfo = info
		}
	}

	var errs errors.PartialBuilder
	empty := gitignore.Empty()

	custom := empty
	if len(ig.customIgnoreFilenames) > 0 {
		m, err := ig.createGitignore(dir, dir, ig.customIgnoreFilenames)
		errs.MaybePush(err)
		custom = m
	}

	dotIgnore := empty
	if opts.Ignore {
		m, err := ig.createGitignore(dir, dir, []string{".ignore"})
		errs.MaybePush(err)
		dotIgnore = m
	}

	gi := empty
	if opts.GitIgnore {
		m, err := ig.createGitignore(dir, dir, []string{".gitignore"})
		errs.MaybePush(err)
		gi = m
	}

	exclude := empty
	if opts.GitExclude {
		gitDir, err := resolveGitCommondir(dir, gitInfo)
		if err != nil {
			errs.MaybePushIgnoreIO(err)
		} else if gitDir != "" {
			m, err := ig.createGitignore(dir, gitDir, []string{filepath.Join("info", "exclude")})
			errs.MaybePush(err)
			exclude = m
		}
	}

	child := &Ignore{
		cache:                 ig.cache,
		dir:                   dir,
		overrides:             ig.overrides,
		types:                 ig.types,
		parent:                ig,
		absoluteBase:          ig.absoluteBase,
		explicitIgnores:       ig.explicitIgnores,
		customIgnoreFilenames: ig.customIgnoreFilenames,
		customIgnoreMatcher:   custom,
		ignoreMatcher:         dotIgnore,
		gitGlobalMatcher:      ig.gitGlobalMatcher,
		gitIgnoreMatcher:      gi,
		gitExcludeMatcher:     exclude,
		hasGit:                gitInfo != nil,
		opts:                  opts,
		logger:                ig.logger,
	}

	return child, errs.Err()
}

// createGitignore builds one matcher anchored at dir from the named files
// inside fileDir. Files read later take precedence. Missing files are
// skipped.
func (ig *Ignore) createGitignore(dir, fileDir string, names []string) (*gitignore.Gitignore, error) {
	b := gitignore.NewBuilder(dir).
		CaseInsensitive(ig.opts.IgnoreCaseInsensitive).
		Logger(ig.logger)

	var errs errors.PartialBuilder
	for _, name := range names {
		path := filepath.Join(fileDir, name)
		if !exists(path) {
			continue
		}
		errs.MaybePushIgnoreIO(b.AddFile(path))
	}

	gi, err := b.Build()
	if err != nil {
		errs.Push(err)
		return gitignore.Empty(), errs.Err()
	}

	return gi, errs.Err()
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
