package install

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/conn-castle/bottle/internal/messages"
)

var (
	osChmod       = os.Chmod
	osRename      = os.Rename
	osMkdirAll    = os.MkdirAll
	osCreateTemp  = os.CreateTemp
	httpClient    = &http.Client{Timeout: 60 * time.Second}
	downloadSleep = time.Sleep
)

const (
	defaultMaxDownloadBytes = int64(200 * 1024 * 1024) // 200 MiB
	downloadRetryCount      = 1
	downloadRetryBackoff    = 250 * time.Millisecond
)

// Downloader installs single-file binaries from a URL into Dir.
type Downloader struct {
	Dir       string
	NoNetwork bool
	// MaxBytes caps the download size. Zero means the default cap.
	MaxBytes int64
	// Progress receives one line before and after each download. May be nil.
	Progress io.Writer
}

// Install downloads url to Dir/name, verifies it against expectedSHA256 when
// one is given, and makes it executable. The file only appears at its final
// path once fully written and verified.
func (d *Downloader) Install(name string, url string, expectedSHA256 string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf(messages.InstallBinaryNameFmt, name)
	}
	if d.NoNetwork {
		return "", fmt.Errorf(messages.InstallBinaryNoNetworkFmt, name)
	}
	if err := osMkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf(messages.InstallCreateBinDirFmt, d.Dir, err)
	}
	binPath := filepath.Join(d.Dir, name)
	progress := d.Progress
	if progress == nil {
		progress = io.Discard
	}

	err := withBinaryLock(d.Dir, name, func() error {
		tmp, err := osCreateTemp(d.Dir, "."+name+".tmp-*")
		if err != nil {
			return fmt.Errorf(messages.InstallCreateTempFileFmt, err)
		}
		tmpName := tmp.Name()
		committed := false
		defer func() {
			if !committed {
				_ = os.Remove(tmpName)
			}
		}()

		_, _ = fmt.Fprintf(progress, messages.InstallDownloadingFmt, name, url)
		if err := d.downloadToFile(url, tmp); err != nil {
			_ = tmp.Close()
			return err
		}
		if err := tmp.Sync(); err != nil {
			_ = tmp.Close()
			return fmt.Errorf(messages.InstallSyncTempFileFmt, err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf(messages.InstallCloseTempFileFmt, err)
		}
		if strings.TrimSpace(expectedSHA256) != "" {
			if err := verifyChecksum(tmpName, expectedSHA256); err != nil {
				return err
			}
		}
		if err := osChmod(tmpName, 0o755); err != nil {
			return fmt.Errorf(messages.InstallChmodBinaryFmt, err)
		}
		if err := osRename(tmpName, binPath); err != nil {
			return fmt.Errorf(messages.InstallMoveBinaryFmt, err)
		}
		committed = true
		_, _ = fmt.Fprintf(progress, messages.InstallDownloadedFmt, name, binPath)
		return nil
	})
	if err != nil {
		return "", err
	}
	return binPath, nil
}

func (d *Downloader) maxBytes() int64 {
	if d.MaxBytes <= 0 {
		return defaultMaxDownloadBytes
	}
	return d.MaxBytes
}

// downloadToFile fetches url into dest, retrying once on network errors and 5xx responses.
func (d *Downloader) downloadToFile(url string, dest *os.File) error {
	maxBytes := d.maxBytes()
	for attempt := 0; attempt <= downloadRetryCount; attempt++ {
		resp, err := httpClient.Get(url)
		if err != nil {
			if shouldRetryDownload(attempt, err, 0) {
				downloadSleep(downloadRetryBackoff)
				continue
			}
			if isTimeoutError(err) {
				return fmt.Errorf(messages.InstallDownloadTimeoutFmt, url)
			}
			return fmt.Errorf(messages.InstallDownloadFailedFmt, url, err)
		}

		if resp.StatusCode != http.StatusOK {
			status := resp.StatusCode
			statusText := resp.Status
			_ = resp.Body.Close()
			if shouldRetryDownload(attempt, nil, status) {
				downloadSleep(downloadRetryBackoff)
				continue
			}
			return fmt.Errorf(messages.InstallDownloadUnexpectedStatusFmt, url, statusText)
		}

		if err := dest.Truncate(0); err != nil {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.InstallTruncateTempFileFmt, err)
		}
		if _, err := dest.Seek(0, io.SeekStart); err != nil {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.InstallTruncateTempFileFmt, err)
		}

		n, copyErr := io.Copy(dest, io.LimitReader(resp.Body, maxBytes+1))
		_ = resp.Body.Close()
		if copyErr != nil {
			if shouldRetryDownload(attempt, copyErr, 0) {
				downloadSleep(downloadRetryBackoff)
				continue
			}
			return fmt.Errorf(messages.InstallDownloadFailedFmt, url, copyErr)
		}
		if n > maxBytes {
			return fmt.Errorf(messages.InstallDownloadTooLargeFmt, url, maxBytes)
		}
		return nil
	}
	return fmt.Errorf(messages.InstallDownloadFailedFmt, url, errors.New(messages.InstallRetryBudgetExhausted))
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func shouldRetryDownload(attempt int, err error, statusCode int) bool {
	if attempt >= downloadRetryCount {
		return false
	}
	if err != nil {
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}

// verifyChecksum compares the SHA-256 of path to expected, ignoring case.
func verifyChecksum(path string, expected string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf(messages.InstallOpenFileFmt, path, err)
	}
	defer func() { _ = file.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return fmt.Errorf(messages.InstallHashFileFmt, path, err)
	}
	actual := fmt.Sprintf("%x", hasher.Sum(nil))
	if !strings.EqualFold(actual, strings.TrimSpace(expected)) {
		return fmt.Errorf(messages.InstallChecksumMismatchFmt, path, expected, actual)
	}
	return nil
}
