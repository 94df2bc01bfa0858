// Package archive reads yearly award archives: zip files named <year>.zip,
// each entry one XML award document. A Reader yields decoded records in
// archive order and satisfies the graph client's record source.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/grantgraph/grantgraph/pkg/common"
	"github.com/grantgraph/grantgraph/pkg/logger"
)

// Explorer enumerates the year archives present in one directory.
type Explorer struct {
	dir string
}

// NewExplorer creates an Explorer over the given directory. The directory
// is not scanned until Years or Open is called.
func NewExplorer(dir string) *Explorer {
	return &Explorer{dir: dir}
}

// Years lists the years for which an archive exists, ascending. Files not
// named <year>.zip are ignored.
func (e *Explorer) Years() ([]int, error) {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return nil, err
	}

	var years []int
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".zip") {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSuffix(name, ".zip"))
		if err != nil {
			continue
		}
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}

// Open opens the archive for one year.
func (e *Explorer) Open(year int) (*Reader, error) {
	path := filepath.Join(e.dir, fmt.Sprintf("%d.zip", year))
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive for %d: %w", year, err)
	}
	return &Reader{zr: &zr.Reader, closer: zr}, nil
}

// Reader yields the records of one archive in entry order.
type Reader struct {
	zr     *zip.Reader
	closer io.Closer
	next   int
}

// NewReader wraps an already open zip, e.g. one fetched from object storage
// into memory.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	return &Reader{zr: zr}, nil
}

// Next decodes the next award document. It returns io.EOF after the last
// entry. An entry that cannot be decoded is skipped with a warning rather
// than aborting the whole archive.
func (r *Reader) Next() (*common.Record, error) {
	for r.next < len(r.zr.File) {
		entry := r.zr.File[r.next]
		r.next++

		f, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open archive entry %s: %w", entry.Name, err)
		}
		record, err := DecodeRecord(f)
		f.Close()
		if err != nil {
			logger.Warn("[Archive] Skipping undecodable entry", "entry", entry.Name, "err", err)
			continue
		}
		return record, nil
	}
	return nil, io.EOF
}

// Close releases the underlying archive file, if the Reader owns one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
