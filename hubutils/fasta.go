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
// File Name:  fasta.go
//
// ==========================================================================

package hubutils

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// FASTARecord contains parsed data from a FASTA format record
type FASTARecord struct {
	SeqID    string
	Title    string
	Length   int
	Sequence string
}

// FASTAConverter reads a concatenated FASTA stream and sends individual records
// down a channel. The error channel receives one value after the record channel
// is closed.
func FASTAConverter(inp io.Reader) (<-chan FASTARecord, <-chan error) {

	out := make(chan FASTARecord, chanDepth)
	errc := make(chan error, 1)

	// fastaStreamer assembles definition and sequence lines into records
	fastaStreamer := func(inp io.Reader, out chan<- FASTARecord, errc chan<- error) {

		// close channel when all records have been sent
		defer close(out)

		seqid := ""
		title := ""
		inRecord := false

		var fasta []string

		sendFasta := func() {

			if inRecord {
				seq := strings.Join(fasta, "")
				out <- FASTARecord{SeqID: seqid, Title: title, Length: len(seq), Sequence: seq}
			}

			seqid = ""
			title = ""

			// reset sequence accumulator
			fasta = nil
		}

		scanr := newLineScanner(inp)
		for scanr.Scan() {

			line := strings.TrimRight(scanr.Text(), " \r\n")

			if strings.HasPrefix(line, ">") {

				// send current record, clear sequence buffer
				sendFasta()

				// parse next defline
				seqid, title = SplitInTwoLeft(line[1:], " ")
				inRecord = true

				continue
			}

			// leave only letters, asterisk, or hyphen
			line = strings.Map(func(c rune) rune {
				if c >= 'A' && c <= 'Z' {
					return c
				}
				if c >= 'a' && c <= 'z' {
					return c
				}
				if c == '*' || c == '-' {
					return c
				}
				return -1
			}, line)

			// append current line
			fasta = append(fasta, line)
		}

		// send final record
		sendFasta()

		errc <- scanr.Err()
	}

	go fastaStreamer(inp, out, errc)

	return out, errc
}

// WriteFASTA writes one record with the given line width, 70 by default
func WriteFASTA(wrtr *bufio.Writer, defline, sequence string, width int) {

	if width < 1 || width > 100 {
		width = 70
	}

	wrtr.WriteString(defline)
	wrtr.WriteString("\n")

	for sequence != "" {
		mx := min(len(sequence), width)
		wrtr.WriteString(sequence[:mx])
		wrtr.WriteString("\n")
		sequence = sequence[mx:]
	}
}

// FormatFASTA normalizes the definition lines of a provider FASTA file and
// removes blank lines. Sequence lines are copied unchanged.
func FormatFASTA(inp io.Reader, out io.Writer, source SourceAdapter) (int, error) {

	count := 0

	wrtr := bufio.NewWriter(out)

	scanr := newLineScanner(inp)
	for scanr.Scan() {

		line := strings.TrimRight(scanr.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, ">") {
			line = source.FormatDefline(line)
			count++
		}

		wrtr.WriteString(line)
		wrtr.WriteString("\n")
	}
	if err := scanr.Err(); err != nil {
		return count, err
	}

	return count, wrtr.Flush()
}

// SelectProteins writes the sequences whose IDs are in the list, with deflines
// of the form ">gnl|<label>|<id>", and returns how many were found
func SelectProteins(inp io.Reader, out io.Writer, ids []string, label string) (int, error) {

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	count := 0

	wrtr := bufio.NewWriter(out)

	fcnv, errc := FASTAConverter(inp)
	for fsa := range fcnv {
		if !wanted[fsa.SeqID] {
			continue
		}
		defline := ">gnl|" + label + "|" + fsa.SeqID
		if fsa.Title != "" {
			defline += " " + fsa.Title
		}
		WriteFASTA(wrtr, defline, fsa.Sequence, 0)
		count++
	}
	if err := <-errc; err != nil {
		return count, err
	}

	return count, wrtr.Flush()
}

// SequenceLengths returns the length of every sequence, and the IDs in file order
func SequenceLengths(inp io.Reader) (map[string]int, []string, error) {

	lengths := make(map[string]int)
	var order []string

	fcnv, errc := FASTAConverter(inp)
	for fsa := range fcnv {
		if _, ok := lengths[fsa.SeqID]; !ok {
			order = append(order, fsa.SeqID)
		}
		lengths[fsa.SeqID] = fsa.Length
	}

	return lengths, order, <-errc
}

// FixSequenceRegions replaces the ##sequence-region pragmas of a GFF3 stream with
// one pragma per annotated sequence, sized from the genomic sequence lengths and
// written after the ##gff-version line. Sequences absent from the FASTA keep
// their original pragma.
func FixSequenceRegions(inp io.Reader, out io.Writer, lengths map[string]int, order []string) error {

	var header []string
	var body []string
	original := make(map[string]string)
	var originalOrder []string
	annotated := make(map[string]bool)

	scanr := newLineScanner(inp)
	for scanr.Scan() {

		line := strings.TrimRight(scanr.Text(), " \r\n")

		if strings.HasPrefix(line, "##gff-version") {
			header = append(header, line)
			continue
		}
		if sr, ok := ParseSequenceRegion(line); ok {
			if _, ok := original[sr.Seqid]; !ok {
				originalOrder = append(originalOrder, sr.Seqid)
			}
			original[sr.Seqid] = line
			continue
		}
		if rec, ok := ParseRecord(line); ok {
			annotated[rec.Seqid()] = true
		}
		body = append(body, line)
	}
	if err := scanr.Err(); err != nil {
		return err
	}

	if len(header) == 0 {
		header = append(header, "##gff-version   3")
	}

	wrtr := bufio.NewWriter(out)

	for _, line := range header {
		wrtr.WriteString(line)
		wrtr.WriteString("\n")
	}

	written := make(map[string]bool)
	for _, seqid := range order {
		if !annotated[seqid] {
			continue
		}
		wrtr.WriteString("##sequence-region   " + seqid + " 1 " + strconv.Itoa(lengths[seqid]))
		wrtr.WriteString("\n")
		written[seqid] = true
	}
	for _, seqid := range originalOrder {
		if _, known := lengths[seqid]; !known && !written[seqid] {
			wrtr.WriteString(original[seqid])
			wrtr.WriteString("\n")
		}
	}

	for _, line := range body {
		wrtr.WriteString(line)
		wrtr.WriteString("\n")
	}

	return wrtr.Flush()
}
