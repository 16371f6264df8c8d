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
// File Name:  exons.go
//
// ==========================================================================

package hubutils

import (
	"bufio"
	"io"
	"strings"
)

// ExonConverter derives mature mRNA intervals from the exons (or CDS segments)
// of each mRNA. It emits one record per exon; a later sort/tidy run merges
// records sharing an ID into a single feature.
type ExonConverter struct {
	// Convert re-types exons as mRNA records carrying the parent's ID and accession
	Convert bool
	// KeepMRNAs writes the original mRNA records as well, when not converting
	KeepMRNAs bool
	// UseCDS reads CDS records in place of exons
	UseCDS bool
}

// NewExonConverter configures conversion for a provider
func NewExonConverter(source SourceAdapter) ExonConverter {

	return ExonConverter{Convert: true, UseCDS: source.Traits().ExonType == "CDS"}
}

// Run reads a sorted, accession-resolved GFF3 stream. Lines that are not
// nine-column features are skipped. An mRNA without an accession is fatal.
func (ec ExonConverter) Run(inp io.Reader, out io.Writer) (int, error) {

	exonType := "exon"
	if ec.UseCDS {
		exonType = "CDS"
	}

	// mRNA ID to accession
	mrnas := make(map[string]string)
	count := 0

	wrtr := bufio.NewWriter(out)

	scanr := newLineScanner(inp)
	for scanr.Scan() {

		rec, ok := ParseRecord(strings.TrimRight(scanr.Text(), " \r\n"))
		if !ok {
			continue
		}

		switch rec.Type() {
		case "mRNA":
			id := rec.Value("ID")
			acc := rec.Value("accession")
			if id == "" || acc == "" {
				return count, newIntegrityError("", rec, "mRNA accession [ID, accession]", nil)
			}
			register(mrnas, id, acc)
			if !ec.Convert && ec.KeepMRNAs {
				rec.Delete("Parent")
				wrtr.WriteString(rec.String())
				wrtr.WriteString("\n")
				count++
			}

		case exonType:
			parent := rec.Value("Parent")
			if strings.Contains(parent, ",") {
				return count, newIntegrityError("", rec, "single parent [Parent]", ErrMultipleParents)
			}
			acc, ok := mrnas[parent]
			if !ok {
				// exons of tRNAs and other non-coding transcripts
				continue
			}
			rec.Fields[FieldPhase] = "."
			if ec.Convert {
				rec.Fields[FieldType] = "mRNA"
				rec.Delete("ID")
				rec.Rename("Parent", "ID")
				if !rec.Has("accession") {
					rec.Set("accession", acc)
				}
			} else if !ec.KeepMRNAs {
				rec.Delete("Parent")
			}
			wrtr.WriteString(rec.String())
			wrtr.WriteString("\n")
			count++
		}
	}
	if err := scanr.Err(); err != nil {
		return count, err
	}

	return count, wrtr.Flush()
}

// molecule types whose accessions introns inherit
var intronParentTypes = map[string]bool{
	"mRNA":               true,
	"tRNA":               true,
	"ncRNA":              true,
	"transcript":         true,
	"primary_transcript": true,
	"V_gene_segment":     true,
	"D_gene_segment":     true,
	"J_gene_segment":     true,
	"C_gene_segment":     true,
}

// AssignIntronAccessions adds the parent molecule's accession to intron records
// inserted by a canonicalization tool. Every other line passes through.
func AssignIntronAccessions(inp io.Reader, out io.Writer) error {

	accessions := make(map[string]string)

	wrtr := bufio.NewWriter(out)

	scanr := newLineScanner(inp)
	for scanr.Scan() {

		line := strings.TrimRight(scanr.Text(), " \r\n")

		rec, ok := ParseRecord(line)
		if !ok {
			wrtr.WriteString(line)
			wrtr.WriteString("\n")
			continue
		}

		id := rec.Value("ID")
		acc := rec.Value("accession")
		if id != "" && acc != "" && intronParentTypes[rec.Type()] {
			register(accessions, id, acc)
		}

		if rec.Type() == "intron" && !rec.Has("accession") {
			parent := rec.Value("Parent")
			if strings.Contains(parent, ",") {
				return newIntegrityError("", rec, "single parent [Parent]", ErrMultipleParents)
			}
			pacc, ok := accessions[parent]
			if !ok {
				return newIntegrityError("", rec, "intron parent accession [Parent]", nil)
			}
			rec.Set("accession", pacc)
			line = rec.String()
		}

		wrtr.WriteString(line)
		wrtr.WriteString("\n")
	}
	if err := scanr.Err(); err != nil {
		return err
	}

	return wrtr.Flush()
}
