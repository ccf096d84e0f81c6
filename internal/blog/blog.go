// Package blog loads Markdown posts with YAML front matter from a directory.
package blog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	domainbuild "animedex/internal/domain/build"
	"animedex/internal/domain/content"
	"animedex/internal/logging"
)

var ErrNotFound = errors.New("blog: post not found")

type Warning struct {
	Path string
	Msg  string
}

type Options struct {
	IncludeDraft bool
}

// Load reads every post under dir. Posts are returned newest first; posts
// with equal dates keep file order. Files with broken front matter or a
// duplicate slug are skipped with a warning.
func Load(ctx context.Context, dir string, opt Options) ([]content.Post, []Warning, error) {
	files, err := discover(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("blog: scan %s: %w", dir, err)
	}

	type result struct {
		post  content.Post
		warns []Warning
		skip  bool
	}
	results := make([]result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, warns, skip, err := readPost(path, opt)
			if err != nil {
				return err
			}
			results[i] = result{post: p, warns: warns, skip: skip}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		posts []content.Post
		warns []Warning
		seen  = make(map[string]struct{}, len(results))
	)
	for _, r := range results {
		warns = append(warns, r.warns...)
		if r.skip {
			continue
		}
		if _, dup := seen[r.post.Meta.Slug]; dup {
			warns = append(warns, Warning{Path: r.post.Body.SourcePath, Msg: "duplicate slug skipped: " + r.post.Meta.Slug})
			continue
		}
		seen[r.post.Meta.Slug] = struct{}{}
		posts = append(posts, r.post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Meta.Date.After(posts[j].Meta.Date)
	})
	return posts, warns, nil
}

func readPost(path string, opt Options) (content.Post, []Warning, bool, error) {
	st, err := os.Stat(path)
	if err != nil {
		return content.Post{}, nil, false, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return content.Post{}, nil, false, err
	}

	fm, body, fmErr := SplitFrontMatter(raw)
	if fmErr != nil && !errors.Is(fmErr, errNoFrontMatter) {
		return content.Post{}, []Warning{{Path: path, Msg: "failed to parse front matter: " + fmErr.Error()}}, true, nil
	}
	if fm.Hidden || (fm.Draft && !opt.IncludeDraft) {
		return content.Post{}, nil, true, nil
	}

	var warns []Warning
	slug := resolveSlug(fm, path)
	if slug == "" {
		return content.Post{}, []Warning{{Path: path, Msg: "empty slug"}}, true, nil
	}

	meta := content.PostMeta{
		Title:   fm.Title,
		Slug:    slug,
		Date:    parseTime(fm.Date),
		Excerpt: fm.Excerpt,
		Tags:    fm.Tags,
		Draft:   fm.Draft,
	}
	if meta.Date.IsZero() {
		meta.Date = st.ModTime()
		warns = append(warns, Warning{Path: path, Msg: "using file modification time for date"})
	}
	if strings.TrimSpace(meta.Title) == "" {
		meta.Title = slug
		warns = append(warns, Warning{Path: path, Msg: "title is empty"})
	}
	if strings.TrimSpace(meta.Excerpt) == "" {
		meta.Excerpt = excerpt(body, 160)
	}
	meta.Normalize()

	return content.Post{
		Meta: meta,
		Body: content.BodyRef{SourcePath: path, ContentHash: domainbuild.HashBytes(raw)},
	}, warns, false, nil
}

// excerpt takes the first paragraph of body, cut to at most n runes.
func excerpt(body []byte, n int) string {
	para := strings.TrimSpace(string(body))
	if i := strings.Index(para, "\n\n"); i >= 0 {
		para = para[:i]
	}
	para = strings.Join(strings.Fields(para), " ")
	r := []rune(para)
	if len(r) <= n {
		return para
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

// Library holds the loaded posts of one directory and reloads them on demand.
type Library struct {
	dir string
	opt Options
	log zerolog.Logger

	mu     sync.RWMutex
	posts  []content.Post
	bySlug map[string]int
	hash   string
}

func NewLibrary(dir string, opt Options) *Library {
	return &Library{
		dir:    dir,
		opt:    opt,
		log:    logging.Component("blog"),
		bySlug: map[string]int{},
	}
}

func (l *Library) Dir() string { return l.dir }

func (l *Library) Reload(ctx context.Context) error {
	posts, warns, err := Load(ctx, l.dir, l.opt)
	if err != nil {
		return err
	}
	for _, w := range warns {
		l.log.Warn().Str("path", w.Path).Msg(w.Msg)
	}

	idx := make(map[string]int, len(posts))
	hashes := make([]string, 0, len(posts))
	for i, p := range posts {
		idx[p.Meta.Slug] = i
		hashes = append(hashes, p.Body.ContentHash)
	}

	l.mu.Lock()
	l.posts = posts
	l.bySlug = idx
	l.hash = domainbuild.HashStrings(hashes...)
	l.mu.Unlock()

	l.log.Info().Str("dir", l.dir).Int("count", len(posts)).Msg("blog loaded")
	return nil
}

// Posts returns the posts newest first.
func (l *Library) Posts() []content.Post {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]content.Post(nil), l.posts...)
}

func (l *Library) Find(slug string) (content.Post, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.bySlug[slug]
	if !ok {
		return content.Post{}, ErrNotFound
	}
	return l.posts[i], nil
}

// Hash identifies the current set of post sources.
func (l *Library) Hash() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.hash
}

// Body reads the Markdown body of p without its front matter.
func Body(p content.Post) ([]byte, error) {
	raw, err := os.ReadFile(p.Body.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("blog: read %s: %w", p.Body.SourcePath, err)
	}
	_, body, err := SplitFrontMatter(raw)
	if err != nil && !errors.Is(err, errNoFrontMatter) {
		return raw, nil
	}
	return body, nil
}
