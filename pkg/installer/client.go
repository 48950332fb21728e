// pkg/installer/client.go
package installer

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/arc-language/pyman/pkg/core"
)

// Client downloads release files
type Client struct {
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a download client
func NewClient(timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Download fetches url into destPath. A file already at destPath whose
// size matches the advertised Content-Length is kept as-is; reused reports
// whether that happened.
func (c *Client) Download(ctx context.Context, url, destPath string) (reused bool, err error) {
	c.logger.Printf("Downloading from: %s", url)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, &core.Error{Op: "download", Path: url, Err: fmt.Errorf("%v: %w", err, core.ErrNetwork)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, &core.Error{Op: "download", Path: url,
			Err: fmt.Errorf("request failed with status: %d: %w", resp.StatusCode, core.ErrNetwork)}
	}

	if info, err := os.Stat(destPath); err == nil && resp.ContentLength > 0 && info.Size() == resp.ContentLength {
		c.logger.Printf("  ✓ Using cached %s (%d bytes)", destPath, info.Size())
		return true, nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return false, fmt.Errorf("creating directory: %w", err)
	}

	partial := destPath + ".part"
	f, err := os.Create(partial)
	if err != nil {
		return false, fmt.Errorf("creating file: %w", err)
	}

	written, err := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if err != nil {
		os.Remove(partial)
		return false, &core.Error{Op: "download", Path: url, Err: fmt.Errorf("%v: %w", err, core.ErrNetwork)}
	}
	if closeErr != nil {
		os.Remove(partial)
		return false, fmt.Errorf("closing file: %w", closeErr)
	}
	if resp.ContentLength > 0 && written != resp.ContentLength {
		os.Remove(partial)
		return false, &core.Error{Op: "download", Path: url,
			Err: fmt.Errorf("short read: %d of %d bytes: %w", written, resp.ContentLength, core.ErrNetwork)}
	}

	if err := os.Rename(partial, destPath); err != nil {
		return false, fmt.Errorf("moving download into place: %w", err)
	}

	c.logger.Printf("  Downloaded %d bytes to %s", written, destPath)
	return false, nil
}
