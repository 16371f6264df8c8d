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
// File Name:  table.go
//
// ==========================================================================

package hubutils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteProteinTable writes "protein<TAB>ilocus" rows in the order given
func WriteProteinTable(out io.Writer, mappings []ProteinMapping) error {

	wrtr := bufio.NewWriter(out)

	for _, pm := range mappings {
		wrtr.WriteString(pm.Protein)
		wrtr.WriteString("\t")
		wrtr.WriteString(pm.Locus)
		wrtr.WriteString("\n")
	}

	return wrtr.Flush()
}

// LoadProteinTable reads a protein to iLocus table. When a protein appears on
// several rows the last row wins. Blank lines are skipped, and a row without
// exactly two columns is an error.
func LoadProteinTable(inp io.Reader) (map[string]string, error) {

	table := make(map[string]string)
	row := 0

	scanr := newLineScanner(inp)
	for scanr.Scan() {

		line := strings.TrimRight(scanr.Text(), " \r\n")

		row++

		if line == "" {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) != 2 || cols[0] == "" || cols[1] == "" {
			return table, fmt.Errorf("mismatched columns in row %d - '%s'", row, line)
		}

		table[cols[0]] = cols[1]
	}

	return table, scanr.Err()
}

// WriteList writes one identifier per line
func WriteList(out io.Writer, items []string) error {

	wrtr := bufio.NewWriter(out)

	for _, item := range items {
		wrtr.WriteString(item)
		wrtr.WriteString("\n")
	}

	return wrtr.Flush()
}

// ReadList reads one identifier per line, skipping blank lines
func ReadList(inp io.Reader) ([]string, error) {

	var items []string

	scanr := newLineScanner(inp)
	for scanr.Scan() {
		item := strings.TrimSpace(scanr.Text())
		if item != "" {
			items = append(items, item)
		}
	}

	return items, scanr.Err()
}
