// Package savvy decodes SPSS system files (.sav).
//
// A system file is a fixed header, a dictionary of variable records, a run
// of internal records (value labels, documents, extensions) and a bytecode
// compressed case stream. The sav package decodes those parts into raw
// slots; the dataset package folds them into named, typed columns.
//
// # Basic Usage
//
// Loading a whole file into columns:
//
//	ds, err := savvy.Load("survey.sav")
//	if err != nil {
//	    return err
//	}
//	income, _ := ds.Col("income")
//	summary, _ := income.Describe()
//
// Reading only the dictionary:
//
//	f, err := savvy.OpenFile("survey.sav")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	schema, err := f.Schema()
//
// Files wrapped in zstd, gzip, lz4, snappy or s2 containers are detected
// by their signature and decompressed transparently.
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the sav,
// compress and dataset packages. For paged or remote input, build a
// feeder.Feeder directly and pass it to sav.NewReader.
package savvy

import (
	"fmt"
	"io"

	"github.com/mhermher/savvy/compress"
	"github.com/mhermher/savvy/dataset"
	"github.com/mhermher/savvy/feeder"
	"github.com/mhermher/savvy/format"
	"github.com/mhermher/savvy/internal/hash"
	"github.com/mhermher/savvy/sav"
)

// File is an opened system file.
type File struct {
	*sav.Reader
	src *compress.File
}

// Container returns the wrapper the file was stored in.
func (f *File) Container() format.ContainerType {
	return f.src.Container
}

// Close releases the underlying file handle. It is safe to call more than
// once.
func (f *File) Close() error {
	return f.src.Close()
}

// OpenFile opens the system file at path.
func OpenFile(path string, opts ...sav.ReaderOption) (*File, error) {
	src, err := compress.Open(path)
	if err != nil {
		return nil, err
	}

	r, err := sav.NewReader(src, opts...)
	if err != nil {
		src.Close()
		return nil, err
	}

	return &File{Reader: r, src: src}, nil
}

// Open reads a whole system file from r into memory.
func Open(r io.Reader, opts ...sav.ReaderOption) (*File, error) {
	src, err := compress.OpenReader(r)
	if err != nil {
		return nil, err
	}

	reader, err := sav.NewReader(src, opts...)
	if err != nil {
		return nil, err
	}

	return &File{Reader: reader, src: src}, nil
}

// ParseBytes decodes every part of an in-memory system file.
func ParseBytes(data []byte, opts ...sav.ReaderOption) (sav.Parsed, error) {
	plain, err := compress.Decompress(data)
	if err != nil {
		return sav.Parsed{}, err
	}

	r, err := sav.NewReader(feeder.NewBufferFeeder(plain), opts...)
	if err != nil {
		return sav.Parsed{}, err
	}

	return r.All()
}

// Load decodes the file at path into a dataset.
func Load(path string, opts ...dataset.Option) (*dataset.Dataset, error) {
	f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parsed, err := f.All()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return dataset.New(parsed, opts...)
}

// ColumnID returns the case-insensitive 64-bit identifier datasets use to
// index column names.
func ColumnID(name string) uint64 {
	return hash.FoldID(name)
}
