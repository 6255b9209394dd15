// Package assets reads transcript-like markdown documents from disk.
// File names carry a YYYY-MM-DD prefix (e.g. "2025-03-10-standup.md") that
// doubles as the document date.
package assets

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/patrickmn/go-cache"
)

// Asset is one raw transcript document.
type Asset struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// Loader lists and reads asset files. File contents are cached briefly so
// batch runs over the same date don't re-read the disk per request.
type Loader struct {
	dir   string
	cache *cache.Cache
}

func NewLoader(dir string) *Loader {
	return &Loader{
		dir:   dir,
		cache: cache.New(10*time.Minute, 30*time.Minute),
	}
}

// ParseDateFromName extracts the YYYY-MM-DD prefix from a filename, or ""
// when the name carries none.
func ParseDateFromName(name string) string {
	if len(name) < 10 {
		return ""
	}
	prefix := name[:10]
	if _, err := time.Parse("2006-01-02", prefix); err != nil {
		return ""
	}
	return prefix
}

// ListByDate returns assets whose name starts with the given date, sorted by
// name.
func (l *Loader) ListByDate(date string) ([]Asset, error) {
	return l.list(func(assetDate string) bool { return assetDate == date })
}

// ListUpTo returns assets dated on or before the given date, sorted by name.
// An empty date lists everything.
func (l *Loader) ListUpTo(date string) ([]Asset, error) {
	if date == "" {
		return l.list(func(string) bool { return true })
	}
	return l.list(func(assetDate string) bool { return assetDate <= date })
}

func (l *Loader) list(keep func(date string) bool) ([]Asset, error) {
	if _, err := os.Stat(l.dir); err != nil {
		return []Asset{}, nil
	}

	names, err := doublestar.Glob(os.DirFS(l.dir), "**/*.md")
	if err != nil {
		return nil, err
	}

	assets := make([]Asset, 0, len(names))
	for _, name := range names {
		base := filepath.Base(name)
		date := ParseDateFromName(base)
		if date == "" || !keep(date) {
			continue
		}
		content, err := l.read(name)
		if err != nil {
			continue
		}
		assets = append(assets, Asset{Name: base, Date: date, Content: content})
	}

	sort.Slice(assets, func(i, j int) bool { return assets[i].Name < assets[j].Name })
	return assets, nil
}

// Members reads member ids from members.md, one per line, if present.
func (l *Loader) Members() []string {
	content, err := l.read("members.md")
	if err != nil {
		return nil
	}
	var members []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			members = append(members, line)
		}
	}
	return members
}

func (l *Loader) read(name string) (string, error) {
	if cached, found := l.cache.Get(name); found {
		return cached.(string), nil
	}
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		return "", err
	}
	content := string(data)
	l.cache.Set(name, content, cache.DefaultExpiration)
	return content, nil
}
