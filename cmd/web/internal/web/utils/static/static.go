// Package static serves the editor's embedded assets. Each asset gets a
// content-hash version so pages can link to immutable URLs.
package static

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
)

// versionLength is the number of hex digits of the content hash used in ?v=.
const versionLength = 12

const (
	cacheImmutable   = "public, max-age=31536000, immutable"
	cacheRevalidate  = "no-cache"
	versionQueryName = "v"
)

// Asset is one published file held in memory.
type Asset struct {
	Path         string
	ContentType  string
	ETag         string
	Version      string
	LastModified time.Time
	data         []byte
}

// Size is the asset's length in bytes.
func (a *Asset) Size() int64 { return int64(len(a.data)) }

// StaticCache holds the published assets. It is read-only after
// construction.
type StaticCache struct {
	urlPrefix string
	entries   map[string]*Asset
}

// NewStaticCache loads every file under the publish directories of fsys.
// Files elsewhere in fsys (help documents, for example) are not served.
// urlPrefix is the route the cache is mounted on, e.g. "/static/".
func NewStaticCache(fsys fs.FS, urlPrefix string, publish ...string) (*StaticCache, error) {
	c := &StaticCache{
		urlPrefix: "/" + strings.Trim(urlPrefix, "/") + "/",
		entries:   make(map[string]*Asset),
	}
	// embed.FS reports no modification times; the build is the release.
	loaded := time.Now().UTC().Truncate(time.Second)

	for _, root := range publish {
		err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return err
			}
			sum := sha256.Sum256(data)
			hash := hex.EncodeToString(sum[:])
			c.entries[p] = &Asset{
				Path:         p,
				ContentType:  contentType(p, data),
				ETag:         `"` + hash + `"`,
				Version:      hash[:versionLength],
				LastModified: loaded,
				data:         data,
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("load static %s: %w", root, err)
		}
	}
	return c, nil
}

func contentType(p string, data []byte) string {
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		return ct
	}
	return mimetype.Detect(data).String()
}

// Lookup returns the asset stored at p (relative to the fs root).
func (s *StaticCache) Lookup(p string) (*Asset, bool) {
	a, ok := s.entries[p]
	return a, ok
}

// URL returns the versioned address of p, or the bare address when p is not
// published.
func (s *StaticCache) URL(p string) string {
	a, ok := s.entries[p]
	if !ok {
		return s.urlPrefix + p
	}
	return s.urlPrefix + p + "?" + versionQueryName + "=" + a.Version
}

// ServeStaticFile serves published assets below the cache's URL prefix.
// Requests carrying the current ?v= are cached for a year; anything else
// revalidates against the ETag.
func (s *StaticCache) ServeStaticFile() echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		p := strings.TrimPrefix(req.URL.Path, s.urlPrefix)
		a, ok := s.entries[path.Clean(p)]
		if !ok {
			return echo.ErrNotFound
		}

		h := c.Response().Header()
		h.Set(echo.HeaderCacheControl, cacheRevalidate)
		if c.QueryParam(versionQueryName) == a.Version {
			h.Set(echo.HeaderCacheControl, cacheImmutable)
		}
		h.Set("ETag", a.ETag)
		h.Set(echo.HeaderLastModified, a.LastModified.Format(http.TimeFormat))

		if etagMatches(req.Header.Get("If-None-Match"), a.ETag) {
			return c.NoContent(http.StatusNotModified)
		}
		if req.Header.Get("If-None-Match") == "" {
			if ims, err := http.ParseTime(req.Header.Get(echo.HeaderIfModifiedSince)); err == nil && !a.LastModified.After(ims) {
				return c.NoContent(http.StatusNotModified)
			}
		}
		return c.Blob(http.StatusOK, a.ContentType, a.data)
	}
}

// etagMatches reports whether an If-None-Match header lists etag, ignoring
// weak prefixes.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "W/")
		if tag == "*" || tag == etag {
			return true
		}
	}
	return false
}
