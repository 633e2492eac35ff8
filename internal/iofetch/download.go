package iofetch

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
)

// Fetch obtains the expanded_taxa SQLite dataset and places it at dest.
//
// Resolution order:
//  1. cacheDir already holds the artifact → copy it to dest.
//  2. Download the SQLite artifact from url.
//  3. On 404, download the .tsv.gz sibling and load it into dest.
//
// A successful download is stored in cacheDir (when set) for later
// runs. Writes are atomic: data lands under a unique temp name first
// and is renamed into place.
func Fetch(ctx context.Context, url, dest, cacheDir string) error {
	base := filepath.Base(dest)

	if cacheDir != "" {
		cached := filepath.Join(cacheDir, base)
		if _, err := os.Stat(cached); err == nil {
			return copyFile(cached, dest)
		}
	}

	tmp := filepath.Join(os.TempDir(),
		fmt.Sprintf("gntaxa-%s", uuid.NewString()))
	defer os.Remove(tmp)

	status, err := downloadTo(ctx, url, tmp)
	if err != nil {
		return err
	}

	switch {
	case status == http.StatusOK:
		if err := os.Rename(tmp, dest); err != nil {
			if err = copyFile(tmp, dest); err != nil {
				return DownloadError(url, err)
			}
		}
	case status == http.StatusNotFound &&
		strings.HasSuffix(url, ".sqlite"):
		gzURL := strings.TrimSuffix(url, ".sqlite") + ".tsv.gz"
		if err := fetchTSVGZ(ctx, gzURL, dest); err != nil {
			return err
		}
	default:
		return DownloadError(url,
			fmt.Errorf("unexpected HTTP status %d", status))
	}

	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0755); err == nil {
			// A failed cache write only costs the next run a download.
			_ = copyFile(dest, filepath.Join(cacheDir, base))
		}
	}
	return nil
}

// fetchTSVGZ downloads a gzipped TSV snapshot and loads it into a
// fresh SQLite database at dest.
func fetchTSVGZ(ctx context.Context, url, dest string) error {
	tmp := filepath.Join(os.TempDir(),
		fmt.Sprintf("gntaxa-%s.tsv.gz", uuid.NewString()))
	defer os.Remove(tmp)

	status, err := downloadTo(ctx, url, tmp)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return DownloadError(url,
			fmt.Errorf("unexpected HTTP status %d", status))
	}

	fh, err := os.Open(tmp)
	if err != nil {
		return DownloadError(url, err)
	}
	defer fh.Close()

	gz, err := gzip.NewReader(fh)
	if err != nil {
		return BadArchiveError(url, err)
	}
	defer gz.Close()

	os.Remove(dest)
	_, err = LoadFile(ctx, dest, gz, Replace)
	return err
}

// downloadTo streams url into path, showing a progress bar when the
// server reports a length. Non-2xx statuses are returned to the caller
// rather than treated as errors, so 404 can trigger the TSV fallback.
func downloadTo(ctx context.Context, url, path string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, DownloadError(url, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, DownloadError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}

	out, err := os.Create(path)
	if err != nil {
		return 0, DownloadError(url, err)
	}
	defer out.Close()

	src := resp.Body
	if resp.ContentLength > 0 {
		bar := pb.Full.Start64(resp.ContentLength)
		defer bar.Finish()
		src = bar.NewProxyReader(resp.Body)
	}

	if _, err := io.Copy(out, src); err != nil {
		return 0, DownloadError(url, err)
	}
	return resp.StatusCode, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return CopyFileError(src, dst, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return CopyFileError(src, dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return CopyFileError(src, dst, err)
	}
	return nil
}
