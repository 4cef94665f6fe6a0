//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

// Package ingest turns an uploaded delimited file into a header plus rows.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/e-gun/CSVTopicServer/internal/gen"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyFile     = errors.New("empty file")
	ErrBadFormat     = errors.New("unsupported file format")
	ErrTooLarge      = errors.New("file too large")
	ErrRead          = errors.New("could not read file")
	ErrUnknownColumn = errors.New("unknown column")
)

const (
	BOM = "\ufeff"
)

// namarkers - the strings pandas reads as NA by default
var namarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// Options - limits applied while parsing
type Options struct {
	MaxBytes int64 // 0 means no limit
}

// Dataset - one uploaded file
type Dataset struct {
	Name    string
	Size    int64
	Columns []string
	Rows    [][]string
}

// Missing - is this cell empty or one of the NA markers?
func Missing(cell string) bool {
	_, na := namarkers[strings.TrimSpace(cell)]
	return na
}

// Parse - read a csv (or tsv) upload into a Dataset
func Parse(name string, r io.Reader, opt Options) (*Dataset, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(vv.AcceptedExtensions, ext) {
		return nil, fmt.Errorf("%w: %q", ErrBadFormat, ext)
	}

	var src io.Reader = r
	if opt.MaxBytes > 0 {
		src = io.LimitReader(r, opt.MaxBytes+1)
	}

	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	if opt.MaxBytes > 0 && int64(len(raw)) > opt.MaxBytes {
		return nil, fmt.Errorf("%w: more than %s", ErrTooLarge, humanize.Bytes(uint64(opt.MaxBytes)))
	}

	size := int64(len(raw))
	raw = bytes.TrimPrefix(raw, []byte(BOM))

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyFile
	}

	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: not valid UTF-8", ErrBadFormat)
	}

	rdr := csv.NewReader(bytes.NewReader(raw))
	rdr.LazyQuotes = true
	// field counts are checked below: short rows are padded, long rows rejected
	rdr.FieldsPerRecord = -1
	if ext == ".tsv" {
		rdr.Comma = '\t'
	}

	header, err := rdr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}

	if len(header) == 0 || (len(header) == 1 && strings.TrimSpace(header[0]) == "") {
		return nil, ErrEmptyFile
	}

	// a second file pasted onto the first leaves its BOM behind
	for i := range header {
		header[i] = gen.Purgechars(BOM+"\x00", header[i])
	}

	ds := &Dataset{
		Name:    name,
		Size:    size,
		Columns: mangle(header),
	}

	for {
		rec, e := rdr.Read()
		if errors.Is(e, io.EOF) {
			break
		}
		if e != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFormat, e)
		}
		if len(rec) > len(ds.Columns) {
			line, _ := rdr.FieldPos(0)
			return nil, fmt.Errorf("%w: expected %d fields in line %d, saw %d", ErrBadFormat, len(ds.Columns), line, len(rec))
		}
		for len(rec) < len(ds.Columns) {
			rec = append(rec, "")
		}
		ds.Rows = append(ds.Rows, rec)
	}

	return ds, nil
}

// mangle - rename blank and duplicate headers the way pandas does: "Unnamed: 3", "name.1"
func mangle(header []string) []string {
	cols := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	counts := make(map[string]int, len(header))

	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		c := h
		for taken[c] {
			counts[h]++
			c = fmt.Sprintf("%s.%d", h, counts[h])
		}
		taken[c] = true
		cols[i] = c
	}
	return cols
}

// ColumnIndex - position of a named column; -1 if absent
func (ds *Dataset) ColumnIndex(name string) int {
	return slices.Index(ds.Columns, name)
}

// Column - the non-missing values of a column in row order
func (ds *Dataset) Column(name string) ([]string, error) {
	idx := ds.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}

	vals := make([]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		if !Missing(row[idx]) {
			vals = append(vals, row[idx])
		}
	}
	return vals, nil
}

// Preview - the first n rows
func (ds *Dataset) Preview(n int) [][]string {
	if n <= 0 {
		return [][]string{}
	}
	n = min(n, len(ds.Rows))
	pv := make([][]string, n)
	for i := 0; i < n; i++ {
		pv[i] = slices.Clone(ds.Rows[i])
	}
	return pv
}

// HumanSize - "1.2 kB" and the like
func (ds *Dataset) HumanSize() string {
	return humanize.Bytes(uint64(ds.Size))
}
