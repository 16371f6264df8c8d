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
// File Name:  filter.go
//
// ==========================================================================

package hubutils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ExclusionFilter drops every line containing one of its patterns, like grep -v -F
type ExclusionFilter struct {
	patterns []string
}

// NewExclusionFilter ignores blank patterns
func NewExclusionFilter(patterns []string) *ExclusionFilter {

	flt := &ExclusionFilter{}
	for _, pat := range patterns {
		pat = strings.TrimRight(pat, "\r\n")
		if strings.TrimSpace(pat) == "" {
			continue
		}
		flt.patterns = append(flt.patterns, pat)
	}

	return flt
}

// LoadExclusionFilter reads one pattern per line from a file
func LoadExclusionFilter(fileName string) (*ExclusionFilter, error) {

	fl, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("unable to open exclusion file: %w", err)
	}
	defer fl.Close()

	var patterns []string

	scanr := newLineScanner(fl)
	for scanr.Scan() {
		patterns = append(patterns, scanr.Text())
	}
	if err := scanr.Err(); err != nil {
		return nil, fmt.Errorf("unable to read exclusion file %s: %w", fileName, err)
	}

	return NewExclusionFilter(patterns), nil
}

// Len returns the number of active patterns
func (flt *ExclusionFilter) Len() int {

	if flt == nil {
		return 0
	}

	return len(flt.patterns)
}

// Excludes reports whether a line matches any pattern
func (flt *ExclusionFilter) Excludes(line string) bool {

	if flt == nil {
		return false
	}

	for _, pat := range flt.patterns {
		if strings.Contains(line, pat) {
			return true
		}
	}

	return false
}

// Filter copies input to output without the excluded lines
func (flt *ExclusionFilter) Filter(inp io.Reader, out io.Writer) error {

	wrtr := bufio.NewWriter(out)

	scanr := newLineScanner(inp)
	for scanr.Scan() {
		line := scanr.Text()
		if flt.Excludes(line) {
			continue
		}
		wrtr.WriteString(line)
		wrtr.WriteString("\n")
	}
	if err := scanr.Err(); err != nil {
		return err
	}

	return wrtr.Flush()
}

// rewriteLines passes every line through, handing feature records to a callback
// that may modify them in place and returns false to drop them
func rewriteLines(inp io.Reader, out io.Writer, proc func(rec *Record) bool) error {

	return rewriteLinesWith(inp, out, nil, proc)
}

// rewriteLinesWith also maps every non-feature line
func rewriteLinesWith(inp io.Reader, out io.Writer, other func(line string) string, proc func(rec *Record) bool) error {

	wrtr := bufio.NewWriter(out)

	scanr := newLineScanner(inp)
	for scanr.Scan() {
		line := scanr.Text()
		if rec, ok := ParseRecord(line); ok && proc != nil {
			if !proc(rec) {
				continue
			}
			line = rec.String()
		} else if !ok && other != nil {
			line = other(line)
		}
		wrtr.WriteString(line)
		wrtr.WriteString("\n")
	}
	if err := scanr.Err(); err != nil {
		return err
	}

	return wrtr.Flush()
}

// fixTRNAs repairs FlyBase tRNA loci, where the gene has no ID and the tRNA
// names its gene only in a Note. Genes get "ID=gene.trna.<name>", tRNAs get the
// matching Parent, and tRNAs sharing a gene are merged into one span written
// after all other lines. The merged record carries the attributes of the last
// tRNA seen for its gene.
func fixTRNAs(inp io.Reader, out io.Writer) error {

	type pendingTRNA struct {
		rec   *Record
		start int
		end   int
	}

	var order []string
	trnas := make(map[string]*pendingTRNA)

	wrtr := bufio.NewWriter(out)

	scanr := newLineScanner(inp)
	for scanr.Scan() {
		line := scanr.Text()

		rec, ok := ParseRecord(line)
		if !ok {
			wrtr.WriteString(line)
			wrtr.WriteString("\n")
			continue
		}

		switch {
		case rec.Type() == "gene" && strings.HasPrefix(rec.Value("gene"), "tRNA"):
			name, found := strings.CutPrefix(rec.Value("Name"), "tRNA:")
			if !found || name == "" {
				return newIntegrityError("ncbi_flybase", rec, "tRNA gene name [Name=tRNA:*]", nil)
			}
			rec.Delete("ID")
			rec.Prepend("ID", "gene.trna."+name)
			line = rec.String()
		case rec.Type() == "tRNA":
			note, found := strings.CutPrefix(rec.Value("Note"), "tRNA:")
			pos := strings.Index(note, "-RA")
			if !found || pos < 1 {
				return newIntegrityError("ncbi_flybase", rec, "tRNA gene name [Note=tRNA:*-RA]", nil)
			}
			name := note[:pos]
			rec.Delete("Parent")
			rec.Prepend("Parent", "gene.trna."+name)
			if prev, ok := trnas[name]; ok {
				prev.rec = rec
				prev.start = min(prev.start, rec.Start())
				prev.end = max(prev.end, rec.End())
			} else {
				trnas[name] = &pendingTRNA{rec: rec, start: rec.Start(), end: rec.End()}
				order = append(order, name)
			}
			continue
		}

		wrtr.WriteString(line)
		wrtr.WriteString("\n")
	}
	if err := scanr.Err(); err != nil {
		return err
	}

	for _, name := range order {
		trna := trnas[name]
		trna.rec.Fields[FieldStart] = strconv.Itoa(trna.start)
		trna.rec.Fields[FieldEnd] = strconv.Itoa(trna.end)
		wrtr.WriteString(trna.rec.String())
		wrtr.WriteString("\n")
	}

	return wrtr.Flush()
}
