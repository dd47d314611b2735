// Package archive reads instrument containers: zip files carrying one XML member that
// describes a single spectrum.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"
)

// RawDataMember is the member holding the spectrum in an instrument container.
const RawDataMember = "Experiment0/RawData0.xml"

// ErrMemberNotFound is returned when the container has no member with the requested path.
var ErrMemberNotFound = errors.New("archive: member not found")

// maxMemberSize bounds the extracted member.
const maxMemberSize = 256 << 20

// ExtractMember returns the text of memberPath inside a zip archive. Paths compare
// case-insensitively and backslash separators are accepted.
func ExtractMember(archiveBytes []byte, memberPath string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(archiveBytes), int64(len(archiveBytes)))
	if err != nil {
		return "", fmt.Errorf("archive: open: %w", err)
	}
	want := normalize(memberPath)
	for _, f := range zr.File {
		if normalize(f.Name) != want {
			continue
		}
		if f.FileInfo().IsDir() {
			return "", fmt.Errorf("archive: %s is a directory", memberPath)
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("archive: open %s: %w", f.Name, err)
		}
		defer rc.Close()

		b, err := io.ReadAll(io.LimitReader(rc, maxMemberSize+1))
		if err != nil {
			return "", fmt.Errorf("archive: read %s: %w", f.Name, err)
		}
		if len(b) > maxMemberSize {
			return "", fmt.Errorf("archive: %s exceeds %d bytes", f.Name, maxMemberSize)
		}
		return string(b), nil
	}
	return "", fmt.Errorf("%w: %s", ErrMemberNotFound, memberPath)
}

// Members lists the file names stored in the archive.
func Members(archiveBytes []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(archiveBytes), int64(len(archiveBytes)))
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", err)
	}
	out := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() {
			out = append(out, f.Name)
		}
	}
	return out, nil
}

func normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	return strings.ToLower(p)
}
