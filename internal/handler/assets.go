package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"spa-gateway/internal/static"
)

// staticFileKey carries the file found by MatchStatic to Static.
const staticFileKey = "static.file"

// AssetHandler serves files from disk: static assets, images and the entry
// document.
type AssetHandler struct {
	resolver *static.Resolver
	logger   *slog.Logger
}

// NewAssetHandler creates an AssetHandler.
func NewAssetHandler(r *static.Resolver, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{
		resolver: r,
		logger:   logger.With("component", "asset_handler"),
	}
}

// MatchStatic matches GET and HEAD requests for a file present under any root.
func (h *AssetHandler) MatchStatic(c echo.Context) bool {
	req := c.Request()
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return false
	}
	p, ok := h.resolver.Resolve(req.URL.Path)
	if ok {
		c.Set(staticFileKey, p)
	}
	return ok
}

// Static serves the file resolved by MatchStatic.
func (h *AssetHandler) Static(c echo.Context) error {
	p, _ := c.Get(staticFileKey).(string)
	if p == "" {
		return echo.ErrNotFound
	}
	return serveFile(c, p)
}

// MatchImage matches GET and HEAD requests ending in an image extension.
func (h *AssetHandler) MatchImage(c echo.Context) bool {
	req := c.Request()
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return false
	}
	return static.IsImage(req.URL.Path)
}

// Image serves an image or answers a plain-text 404. Unlike other misses, a
// missing image never falls through to the entry document.
func (h *AssetHandler) Image(c echo.Context) error {
	path := c.Request().URL.Path
	if p, ok := h.resolver.Resolve(path); ok {
		if err := serveFile(c, p); err == nil {
			return nil
		}
	}
	h.logger.Warn("image not found", "path", path)
	return c.String(http.StatusNotFound, "Image not found")
}

// SPA serves the entry document so the client-side router can take over.
// Failing to open it is a deployment error and is left to echo's error handler.
func (h *AssetHandler) SPA(c echo.Context) error {
	if err := serveFile(c, h.resolver.EntryDocument()); err != nil {
		return fmt.Errorf("serve entry document: %w", err)
	}
	return nil
}

// serveFile writes the file at p, deriving the content type from its extension.
func serveFile(c echo.Context, p string) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", p)
	}
	http.ServeContent(c.Response(), c.Request(), info.Name(), info.ModTime(), f)
	return nil
}
