// ===========================================================================
//
//                            PUBLIC DOMAIN NOTICE
//            National Center for Biotechnology Information (NCBI)
//
//  This software/database is a "United States Government Work" under the
//  terms of the United States Copyright Act. It was written as part of
//  the author's official duties as a United States Government employee and
//  thus cannot be copyrighted. This software/database is freely available
//  to the public for use. The National Library of Medicine and the U.S.
//  Government do not place any restriction on its use or reproduction.
//  We would, however, appreciate having the NCBI and the author cited in
//  any work or product based on this material.
//
//  Although all reasonable efforts have been taken to ensure the accuracy
//  and reliability of the software and data, the NLM and the U.S.
//  Government do not and cannot warrant the performance or results that
//  may be obtained by using this software or data. The NLM and the U.S.
//  Government disclaim all warranties, express or implied, including
//  warranties of performance, merchantability or fitness for any particular
//  purpose.
//
// ===========================================================================
//
// File Name:  genome.go
//
// ==========================================================================

package hubutils

import (
	"bufio"
	"fmt"
	"github.com/klauspost/pgzip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// GenomeDB locates the files of one genome under the working directory
type GenomeDB struct {
	Config  *GenomeConfig
	Workdir string
	Source  SourceAdapter
}

// NewGenomeDB validates the configuration and selects the provider adapter
func NewGenomeDB(gc *GenomeConfig, workdir string) (*GenomeDB, error) {

	if err := gc.Validate(); err != nil {
		return nil, err
	}

	src, err := NewSourceAdapter(gc.Source, gc.Label)
	if err != nil {
		return nil, err
	}

	if workdir == "" {
		workdir = "."
	}

	return &GenomeDB{Config: gc, Workdir: workdir, Source: src}, nil
}

// Label returns the genome label
func (db *GenomeDB) Label() string {

	return db.Config.Label
}

// Dir is the per-genome directory
func (db *GenomeDB) Dir() string {

	return filepath.Join(db.Workdir, db.Config.Label)
}

// File returns a path in the genome directory named "<label><suffix>"
func (db *GenomeDB) File(suffix string) string {

	return filepath.Join(db.Dir(), db.Config.Label+suffix)
}

// RawPath resolves a raw data file name from the configuration
func (db *GenomeDB) RawPath(name string) string {

	if name == "" || filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(db.Dir(), name)
}

// standard genome file names
func (db *GenomeDB) GFF3Path() string         { return db.File(".gff3") }
func (db *GenomeDB) GDNAPath() string         { return db.File(".gdna.fa") }
func (db *GenomeDB) AllProteinPath() string   { return db.File(".all.prot.fa") }
func (db *GenomeDB) ProteinPath() string      { return db.File(".prot.fa") }
func (db *GenomeDB) ILocusPath() string       { return db.File(".iloci.gff3") }
func (db *GenomeDB) ProteinTablePath() string { return db.File(".protein2ilocus.txt") }
func (db *GenomeDB) ProteinIDPath() string    { return db.File(".protids.txt") }
func (db *GenomeDB) MRNAPath() string         { return db.File(".mrnas.gff3") }
func (db *GenomeDB) SimpleILocusPath() string { return db.File(".simple-iloci.txt") }
func (db *GenomeDB) ILocusLengthPath() string { return db.File(".ilens.temp") }

// OpenInput opens a file for reading, or stdin for "-". Files ending in ".gz"
// are decompressed.
func OpenInput(fileName string) (io.ReadCloser, error) {

	if fileName == "" || fileName == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	fl, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}

	// if suffix is ".gz", use decompressor
	if !strings.HasSuffix(fileName, ".gz") {
		return fl, nil
	}

	// using parallel pgzip for better performance on large files
	zpr, err := pgzip.NewReader(bufio.NewReader(fl))
	if err != nil {
		fl.Close()
		return nil, fmt.Errorf("unable to create decompressor on '%s': %w", fileName, err)
	}

	return &zipReader{zpr: zpr, fl: fl}, nil
}

type zipReader struct {
	zpr *pgzip.Reader
	fl  *os.File
}

func (zr *zipReader) Read(p []byte) (int, error) {

	return zr.zpr.Read(p)
}

func (zr *zipReader) Close() error {

	zerr := zr.zpr.Close()
	ferr := zr.fl.Close()
	if zerr != nil {
		return zerr
	}

	return ferr
}

// CreateOutput creates a file for writing, or stdout for "" and "-". Files
// ending in ".gz" are compressed.
func CreateOutput(fileName string) (io.WriteCloser, error) {

	if fileName == "" || fileName == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}

	if dir := filepath.Dir(fileName); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	fl, err := os.Create(fileName)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(fileName, ".gz") {
		return fl, nil
	}

	zpr, err := pgzip.NewWriterLevel(fl, pgzip.BestSpeed)
	if err != nil {
		fl.Close()
		return nil, fmt.Errorf("unable to create compressor on '%s': %w", fileName, err)
	}

	return &zipWriter{zpr: zpr, fl: fl}, nil
}

type zipWriter struct {
	zpr *pgzip.Writer
	fl  *os.File
}

func (zw *zipWriter) Write(p []byte) (int, error) {

	return zw.zpr.Write(p)
}

// Close flushes the compressor before closing the file
func (zw *zipWriter) Close() error {

	zerr := zw.zpr.Close()
	ferr := zw.fl.Close()
	if zerr != nil {
		return zerr
	}

	return ferr
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {

	return nil
}
