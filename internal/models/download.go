package models

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/progress"
)

const defaultDownloadTimeout = 0 // the caller's context bounds the wait

// Downloaded reports whether the model already sits in the model directory.
func Downloaded(modelDir, name string) bool {
	info, err := os.Stat(filepath.Join(modelDir, name))
	return err == nil && info.IsDir()
}

// Download fetches a model archive and unpacks it into modelDir/name.
// tracker may be nil; when set it receives byte progress for rendering.
func Download(ctx context.Context, client *http.Client, name, modelDir string, tracker *progress.Tracker) error {
	if client == nil {
		client = &http.Client{Timeout: defaultDownloadTimeout}
	}
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ArchiveURL(name), nil)
	if err != nil {
		return fmt.Errorf("build model request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download model %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download model %s: unexpected status %d", name, resp.StatusCode)
	}

	if tracker != nil && resp.ContentLength > 0 {
		tracker.UpdateTotal(resp.ContentLength)
	}

	archivePath := filepath.Join(modelDir, name+".zip")
	if err := streamToFile(resp.Body, archivePath, tracker); err != nil {
		os.Remove(archivePath)
		return fmt.Errorf("save model archive: %w", err)
	}
	defer os.Remove(archivePath)

	if err := unpack(archivePath, modelDir, name); err != nil {
		return fmt.Errorf("unpack model %s: %w", name, err)
	}
	if tracker != nil {
		tracker.MarkAsDone()
	}
	return nil
}

func streamToFile(r io.Reader, path string, tracker *progress.Tracker) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, 256*1024)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			if tracker != nil {
				tracker.Increment(int64(n))
			}
		}
		if readErr == io.EOF {
			return out.Close()
		}
		if readErr != nil {
			return readErr
		}
	}
}

// unpack extracts the archive under modelDir/name, flattening the
// model-named directory most archives nest their content in.
func unpack(archivePath, modelDir, name string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer zr.Close()

	destRoot := filepath.Join(modelDir, name)
	for _, file := range zr.File {
		rel := file.Name
		if prefix := name + "/"; strings.HasPrefix(rel, prefix) {
			rel = strings.TrimPrefix(rel, prefix)
		}
		if rel == "" || rel == "." {
			continue
		}
		dest := filepath.Join(destRoot, filepath.FromSlash(rel))
		if !strings.HasPrefix(dest, destRoot+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes model directory: %s", file.Name)
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := extractFile(file, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(file *zip.File, dest string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
