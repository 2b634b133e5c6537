package tvdb

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"episode_syncer/internal/domain"
)

const maxExtractedFileSize = 64 << 20

// scratchDir is a directory owned by a single FetchEpisodeCount call.
type scratchDir struct {
	fs   afero.Fs
	path string
}

func newScratchDir(fs afero.Fs, root string, showID domain.ShowID) (*scratchDir, error) {
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch root: %w", err)
	}

	dir, err := afero.TempDir(fs, root, "show-"+sanitizeName(string(showID))+"-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}

	return &scratchDir{fs: fs, path: dir}, nil
}

// Release removes the directory and everything extracted into it.
func (d *scratchDir) Release() error {
	return d.fs.RemoveAll(d.path)
}

// Extract unpacks a zip archive held in memory into the directory.
func (d *scratchDir) Extract(data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: open archive: %w", domain.ErrArchive, err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := d.extractFile(f); err != nil {
			return err
		}
	}

	return nil
}

func (d *scratchDir) extractFile(f *zip.File) error {
	name := path.Clean("/" + strings.ReplaceAll(f.Name, "\\", "/"))
	target := filepath.Join(d.path, filepath.FromSlash(name))

	if err := d.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", domain.ErrArchive, f.Name, err)
	}
	defer rc.Close()

	out, err := d.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.Name, err)
	}
	defer out.Close()

	n, err := io.Copy(out, io.LimitReader(rc, maxExtractedFileSize+1))
	if err != nil {
		return fmt.Errorf("%w: extract %s: %w", domain.ErrArchive, f.Name, err)
	}
	if n > maxExtractedFileSize {
		return fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrArchive, f.Name, maxExtractedFileSize)
	}

	return nil
}

// Open opens an extracted document by its name inside the archive.
func (d *scratchDir) Open(name string) (afero.File, error) {
	f, err := d.fs.Open(filepath.Join(d.path, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s not in archive: %w", domain.ErrArchive, name, err)
	}
	return f, nil
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
