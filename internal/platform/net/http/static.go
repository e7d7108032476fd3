package http

import (
	stdhttp "net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"snapgate/internal/platform/logger"
)

// StaticDir serves files rooted at dir.
// Any request whose target would escape dir is rejected with 403;
// directory requests fall back to their index.html
func StaticDir(dir string) stdhttp.Handler {
	root, err := filepath.Abs(dir)
	if err != nil {
		root = filepath.Clean(dir)
	}
	log := logger.Named("static")

	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		raw := r.URL.Path

		// reject traversal before any cleaning so "/../x" is a hard 403, not a silent clamp
		if containsDotDot(raw) || strings.ContainsRune(raw, 0) || strings.ContainsRune(raw, '\\') {
			log.Warn().Str("path", raw).Msg("path traversal rejected")
			stdhttp.Error(w, "forbidden", stdhttp.StatusForbidden)
			return
		}

		rel := path.Clean("/" + raw)
		fp := filepath.Join(root, filepath.FromSlash(rel))

		// the joined path must stay inside the root
		if fp != root && !strings.HasPrefix(fp, root+string(filepath.Separator)) {
			log.Warn().Str("path", raw).Msg("resolved path escaped the report root")
			stdhttp.Error(w, "forbidden", stdhttp.StatusForbidden)
			return
		}

		st, err := os.Stat(fp)
		if err == nil && st.IsDir() {
			fp = filepath.Join(fp, "index.html")
			_, err = os.Stat(fp)
		}
		if err != nil {
			stdhttp.NotFound(w, r)
			return
		}
		stdhttp.ServeFile(w, r, fp)
	})
}

// containsDotDot reports whether any slash-separated segment is ".."
func containsDotDot(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
