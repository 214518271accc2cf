package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	apiPrefix    = "/api"
	indexFile    = "index.html"
	errNoAPIPath = "API route not found"
)

// noRoute answers unknown API paths with JSON and serves the single-page
// client for everything else.
func (h *Handler) noRoute(c *gin.Context) {
	p := c.Request.URL.Path
	if p == apiPrefix || strings.HasPrefix(p, apiPrefix+"/") {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoAPIPath})
		return
	}
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		if file, ok := h.staticFile(p); ok {
			c.File(file)
			return
		}
	}
	c.String(http.StatusNotFound, "Not Found")
}

// staticFile maps a URL path to a regular file under the static directory.
// Directories resolve to their index.html.
func (h *Handler) staticFile(urlPath string) (string, bool) {
	if h.opts.StaticDir == "" {
		return "", false
	}
	// Clean against "/" so ".." cannot leave the directory.
	rel := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	full := filepath.Join(h.opts.StaticDir, filepath.FromSlash(rel))

	info, err := os.Stat(full)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		full = filepath.Join(full, indexFile)
		if info, err = os.Stat(full); err != nil || info.IsDir() {
			return "", false
		}
	}
	return full, true
}
