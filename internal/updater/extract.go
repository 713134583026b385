package updater

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ProgressFunc receives one call per processed entry or file.
// current is 1-based and total stays constant for one pass.
type ProgressFunc func(current, total int, name string)

// ExtractArchive unpacks the update package at path into dest, preserving
// the archive's directory structure. Directory entries advance the
// progress index without writing bytes. Entries are streamed, so memory
// use is bounded by one file at a time.
func ExtractArchive(path, dest string, progress ProgressFunc) error {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz"):
		return extractTarGz(path, dest, progress)
	case strings.HasSuffix(lower, ".zip"):
		return extractZip(path, dest, progress)
	default:
		// The original packages ship as zip without guaranteeing the
		// extension, so zip is the fallback format.
		return extractZip(path, dest, progress)
	}
}

func extractZip(path, dest string, progress ProgressFunc) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrArchive, path, err)
	}
	defer r.Close()

	total := len(r.File)
	for i, f := range r.File {
		if progress != nil {
			progress(i+1, total, f.Name)
		}

		target, err := entryTarget(dest, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("%w: create dir %s: %v", ErrIO, target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("%w: create dir %s: %v", ErrIO, filepath.Dir(target), err)
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("%w: decode entry %s: %v", ErrArchive, f.Name, err)
		}
		if err := writeStream(target, rc, f.Mode()); err != nil {
			rc.Close()
			return err
		}
		rc.Close()
	}

	return nil
}

// extractTarGz reads the archive twice: one pass to count entries so the
// progress total is known up front, one pass to extract.
func extractTarGz(path, dest string, progress ProgressFunc) error {
	total, err := countTarEntries(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrArchive, path, err)
	}
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("%w: read gzip: %v", ErrArchive, err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	current := 0
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: read tar: %v", ErrArchive, err)
		}

		current++
		if progress != nil {
			progress(current, total, hdr.Name)
		}

		target, err := entryTarget(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("%w: create dir %s: %v", ErrIO, target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("%w: create dir %s: %v", ErrIO, filepath.Dir(target), err)
			}
			if err := writeStream(target, tr, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		default:
			// Symlinks and specials are not part of update packages.
		}
	}

	return nil
}

func countTarEntries(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: open %s: %v", ErrArchive, path, err)
	}
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return 0, fmt.Errorf("%w: read gzip: %v", ErrArchive, err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	count := 0
	for {
		_, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return 0, fmt.Errorf("%w: read tar: %v", ErrArchive, err)
		}
		count++
	}
}

// entryTarget joins an archive entry name to the destination, rejecting
// names that would escape it. A traversing name means a corrupt or
// hostile package, not something to skip over.
func entryTarget(dest, name string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: entry %q escapes the archive root", ErrArchive, name)
	}
	return filepath.Join(dest, rel), nil
}

func writeStream(target string, src io.Reader, mode os.FileMode) error {
	perm := mode.Perm()
	if perm == 0 {
		// Zip entries written by tools that don't record permissions.
		perm = 0644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrIO, target, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("%w: write %s: %v", ErrIO, target, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrIO, target, err)
	}
	return nil
}
