// Package updater implements the Glide update engine: archive extraction,
// payload resolution, and merging extracted files into the installation
// directory, including replacement of the running executable.
package updater

import "errors"

var (
	// ErrInvalidInput indicates a missing package path or target directory.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPayloadNotFound indicates the resolved payload root does not
	// exist after extraction.
	ErrPayloadNotFound = errors.New("payload not found in update package")

	// ErrArchive indicates a corrupt or unreadable archive, or an entry
	// that cannot be decoded.
	ErrArchive = errors.New("archive error")

	// ErrIO indicates a filesystem create, copy, or write failure.
	ErrIO = errors.New("io error")
)
