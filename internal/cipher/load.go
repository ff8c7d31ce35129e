package cipher

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/PeteDiMarco/misc-tools/internal/fileutil"
)

// Map is an open map file ready for encryption or decryption. A map fetched
// from a URL is spooled into an unlinked temporary file, so Close is all the
// cleanup either kind needs.
type Map struct {
	*os.File
	Size int64
}

// LoadMap opens a local path or fetches an http(s) URL.
func LoadMap(pathOrURL string) (*Map, error) {
	if u, err := url.Parse(pathOrURL); err == nil {
		switch u.Scheme {
		case "http", "https":
			return fetchMap(pathOrURL)
		case "file":
			pathOrURL = u.Path
		}
	}

	f, err := os.Open(fileutil.ExpandTilde(pathOrURL))
	if err != nil {
		return nil, fmt.Errorf("opening map file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening map file: %w", err)
	}
	return &Map{File: f, Size: info.Size()}, nil
}

func fetchMap(rawURL string) (*Map, error) {
	resp, err := http.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetching map: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching map: %s returned %s", rawURL, resp.Status)
	}

	tmp, err := os.CreateTemp("", "otc-map-*")
	if err != nil {
		return nil, err
	}
	// Unlink right away; the open handle keeps the spool alive until Close.
	os.Remove(tmp.Name())

	size, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("fetching map: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, err
	}
	return &Map{File: tmp, Size: size}, nil
}
