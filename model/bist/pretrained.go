package bist

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosuri/uiprogress"
)

const (
	pretrainedURL  = "https://s3-us-west-1.amazonaws.com/nervana-modelzoo/parse/bist-pretrained.zip"
	pretrainedDir  = "bist-pretrained"
	pretrainedFile = "bist.model"
)

// DefaultCacheDir returns the per-user cache directory for the pretrained
// artifact.
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("no user cache dir: %w", err)
	}
	return filepath.Join(dir, "depparse"), nil
}

// Pretrained returns the path of the pretrained model file under dir. The
// file may not exist yet, see EnsurePretrained.
func Pretrained(dir string) string {
	return filepath.Join(dir, pretrainedDir, pretrainedFile)
}

// EnsurePretrained returns the path of the pretrained model under dir,
// downloading and extracting the artifact first if it is absent. Progress
// messages are written to out.
func EnsurePretrained(dir string, out io.Writer) (string, error) {
	modelPath := Pretrained(dir)
	if _, err := os.Stat(modelPath); err == nil {
		return modelPath, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	fmt.Fprintln(out, "Downloading pre-trained BIST model...")
	zipPath := filepath.Join(dir, pretrainedDir+".zip")
	if err := download(pretrainedURL, zipPath); err != nil {
		return "", fmt.Errorf("download of pretrained model failed: %w", err)
	}

	fmt.Fprintln(out, "Unzipping...")
	if err := unzip(zipPath, dir); err != nil {
		return "", fmt.Errorf("extraction of pretrained model failed: %w", err)
	}

	if _, err := os.Stat(modelPath); err != nil {
		return "", fmt.Errorf("archive did not contain %s: %w", filepath.Join(pretrainedDir, pretrainedFile), err)
	}

	fmt.Fprintln(out, "Done.")
	return modelPath, nil
}

// download fetches url into path, showing a progress bar when the size is
// known.
func download(url, path string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	body := resp.Body
	if resp.ContentLength > 0 {
		uiprogress.Start()
		bar := uiprogress.AddBar(int(resp.ContentLength))
		bar.AppendCompleted()
		bar.PrependElapsed()
		defer uiprogress.Stop()

		body = progressReader{r: resp.Body, bar: bar}
	}

	if _, err := io.Copy(f, body); err != nil {
		return err
	}

	return f.Sync()
}

type progressReader struct {
	r   io.Reader
	bar *uiprogress.Bar
}

func (p progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		_ = p.bar.Set(p.bar.Current() + n)
	}
	return n, err
}

func (p progressReader) Close() error {
	if c, ok := p.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// unzip extracts the archive at zipPath below dest.
func unzip(zipPath, dest string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		target := filepath.Join(dest, f.Name)
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes destination: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}

	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
