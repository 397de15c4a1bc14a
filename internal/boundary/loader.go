package boundary

import (
	"archive/zip"
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/bivarmap/internal/fetcher"
	"github.com/sells-group/bivarmap/internal/store"
)

// Loader resolves a boundary source (local path, https:// or ftp://
// URL) into a feature collection. Remote bodies are cached in the
// store keyed by URL; the ETag is revalidated on each load.
type Loader struct {
	http    fetcher.Fetcher
	ftp     *fetcher.FTPFetcher
	store   store.Store // nil disables caching
	tempDir string
}

// NewLoader wires a boundary loader. tempDir receives extracted
// shapefile archives.
func NewLoader(httpFetcher fetcher.Fetcher, ftpFetcher *fetcher.FTPFetcher, st store.Store, tempDir string) *Loader {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Loader{http: httpFetcher, ftp: ftpFetcher, store: st, tempDir: tempDir}
}

// Load fetches and parses the boundary source.
func (l *Loader) Load(ctx context.Context, source string) (*geojson.FeatureCollection, error) {
	u, err := url.Parse(source)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return l.loadHTTP(ctx, source)
	}
	if err == nil && u.Scheme == "ftp" {
		return l.loadFTP(ctx, source)
	}
	return l.loadLocal(source)
}

func (l *Loader) loadLocal(path string) (*geojson.FeatureCollection, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return ConvertShapefile(path)
	case ".zip":
		shpPath, err := l.extractShapefile(path)
		if err != nil {
			return nil, err
		}
		return ConvertShapefile(shpPath)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "boundary: read %s", path)
		}
		return ParseGeoJSON(data)
	}
}

func (l *Loader) loadHTTP(ctx context.Context, rawURL string) (*geojson.FeatureCollection, error) {
	log := zap.L().With(zap.String("component", "boundary.loader"))

	body, err := l.fetchCached(ctx, rawURL, log)
	if err != nil {
		return nil, err
	}
	return l.parseBytes(rawURL, body)
}

// fetchCached returns the boundary body, revalidating any cached copy
// by ETag. Without a store every call downloads fresh.
func (l *Loader) fetchCached(ctx context.Context, rawURL string, log *zap.Logger) ([]byte, error) {
	var etag string
	var cached []byte
	if l.store != nil {
		entry, err := l.store.CachedBoundary(ctx, rawURL)
		if err != nil {
			return nil, eris.Wrap(err, "boundary: read cache")
		}
		if entry != nil {
			etag = entry.ETag
			cached = entry.Body
		}
	}

	if cached != nil && etag != "" {
		rc, newETag, changed, err := l.http.DownloadIfChanged(ctx, rawURL, etag)
		if err != nil {
			return nil, eris.Wrapf(err, "boundary: revalidate %s", rawURL)
		}
		if !changed {
			log.Debug("boundary cache hit", zap.String("url", rawURL))
			return cached, nil
		}
		defer rc.Close() //nolint:errcheck
		body, err := io.ReadAll(rc)
		if err != nil {
			return nil, eris.Wrapf(err, "boundary: read %s", rawURL)
		}
		if err := l.store.PutBoundary(ctx, rawURL, newETag, body); err != nil {
			return nil, eris.Wrap(err, "boundary: update cache")
		}
		return body, nil
	}

	if cached != nil {
		// No ETag to revalidate with; serve the cached copy.
		log.Debug("boundary cache hit without etag", zap.String("url", rawURL))
		return cached, nil
	}

	log.Info("downloading boundary file", zap.String("url", rawURL))
	rc, newETag, _, err := l.http.DownloadIfChanged(ctx, rawURL, "")
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: download %s", rawURL)
	}
	defer rc.Close() //nolint:errcheck
	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read %s", rawURL)
	}
	if l.store != nil {
		if err := l.store.PutBoundary(ctx, rawURL, newETag, body); err != nil {
			return nil, eris.Wrap(err, "boundary: write cache")
		}
	}
	return body, nil
}

func (l *Loader) loadFTP(ctx context.Context, rawURL string) (*geojson.FeatureCollection, error) {
	if l.ftp == nil {
		return nil, eris.Errorf("boundary: no ftp fetcher configured for %s", rawURL)
	}
	rc, err := l.ftp.Download(ctx, rawURL)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: ftp download %s", rawURL)
	}
	defer rc.Close() //nolint:errcheck

	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read %s", rawURL)
	}
	return l.parseBytes(rawURL, body)
}

// parseBytes dispatches on the source's extension: zipped shapefiles
// are extracted to the temp dir, everything else parses as GeoJSON.
func (l *Loader) parseBytes(source string, body []byte) (*geojson.FeatureCollection, error) {
	name := source
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		name = u.Path
	}

	if strings.EqualFold(filepath.Ext(name), ".zip") {
		zipPath := filepath.Join(l.tempDir, filepath.Base(name))
		if err := os.WriteFile(zipPath, body, 0o644); err != nil {
			return nil, eris.Wrapf(err, "boundary: write %s", zipPath)
		}
		shpPath, err := l.extractShapefile(zipPath)
		if err != nil {
			return nil, err
		}
		return ConvertShapefile(shpPath)
	}

	return ParseGeoJSON(body)
}

// extractShapefile extracts a ZIP archive and returns the path of the
// first .shp file inside.
func (l *Loader) extractShapefile(zipPath string) (string, error) {
	extractDir := filepath.Join(l.tempDir, strings.TrimSuffix(filepath.Base(zipPath), filepath.Ext(zipPath)))
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return "", eris.Wrap(err, "boundary: create extract dir")
	}
	if err := extractZIP(zipPath, extractDir); err != nil {
		return "", eris.Wrapf(err, "boundary: extract %s", zipPath)
	}
	return findFileByExt(extractDir, ".shp")
}

// extractZIP extracts a ZIP archive to the destination directory.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "open zip")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		name := filepath.Base(f.Name)
		destPath := filepath.Join(destDir, name)

		if f.FileInfo().IsDir() {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return eris.Wrapf(err, "open zip entry %s", f.Name)
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			_ = rc.Close()
			return eris.Wrapf(err, "create %s", destPath)
		}

		if _, err := io.Copy(outFile, rc); err != nil {
			_ = outFile.Close()
			_ = rc.Close()
			return eris.Wrapf(err, "extract %s", f.Name)
		}
		_ = outFile.Close()
		_ = rc.Close()
	}

	return nil
}

// findFileByExt finds the first file with the given extension in a directory.
func findFileByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrap(err, "read directory")
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", eris.Errorf("no %s file found in %s", ext, dir)
}
