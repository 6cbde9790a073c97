// Package static resolves request paths against the gateway's asset roots.
package static

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"spa-gateway/internal/config"
)

// imageExtensions are served by the dedicated image route, which answers 404
// on a miss instead of falling through to the entry document.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".ico":  true,
	".webp": true,
}

// Resolver looks files up in an ordered list of root directories.
type Resolver struct {
	roots []string
	index string
}

// NewResolver returns a Resolver over the static root followed by its public
// subdirectory.
func NewResolver(cfg *config.Config) *Resolver {
	root := cfg.Static.Root
	return &Resolver{
		roots: []string{root, filepath.Join(root, cfg.Static.PublicDir)},
		index: filepath.Join(root, cfg.Static.Index),
	}
}

// Roots returns the lookup order.
func (r *Resolver) Roots() []string {
	return append([]string(nil), r.roots...)
}

// EntryDocument returns the file served for every unmatched route.
func (r *Resolver) EntryDocument() string {
	return r.index
}

// Resolve returns the first regular file matching urlPath under the roots.
// Stat failures of any kind count as a miss.
func (r *Resolver) Resolve(urlPath string) (string, bool) {
	rel, ok := clean(urlPath)
	if !ok {
		return "", false
	}
	for _, root := range r.roots {
		p := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// IsImage reports whether urlPath ends in an image extension, ignoring case.
func IsImage(urlPath string) bool {
	return imageExtensions[strings.ToLower(path.Ext(urlPath))]
}

// clean roots and cleans urlPath so it cannot climb out of a root, and rejects
// the root itself and any dot-file segment.
func clean(urlPath string) (string, bool) {
	p := path.Clean("/" + urlPath)
	if p == "/" {
		return "", false
	}
	p = p[1:]
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return "", false
		}
	}
	return p, true
}
