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
// File Name:  record.go
//
// ==========================================================================

package hubutils

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// GFF3 column positions
const (
	FieldSeqid = iota
	FieldSource
	FieldType
	FieldStart
	FieldEnd
	FieldScore
	FieldStrand
	FieldPhase
	FieldAttributes
	NumFields
)

// Attribute is one key=value pair from column 9. Keys are case sensitive and
// values are kept exactly as written, including any URL escapes and commas.
// NoValue marks a bare key written without '='.
type Attribute struct {
	Key     string
	Value   string
	NoValue bool
}

// Record is one GFF3 feature line. Fields holds the first eight columns as
// written, and Attrs holds column 9 in its original order.
type Record struct {
	Fields [FieldAttributes]string
	Attrs  []Attribute
}

// SequenceRegion is the content of a ##sequence-region pragma
type SequenceRegion struct {
	Seqid string
	Start int
	End   int
}

// SplitInTwoLeft splits a string at the first occurrence of a separator
func SplitInTwoLeft(str, chr string) (string, string) {

	slc := strings.SplitN(str, chr, 2)
	if len(slc) > 1 {
		return slc[0], slc[1]
	}

	return str, ""
}

// IsFeatureLine reports whether the line has the nine tab-delimited GFF3 columns
func IsFeatureLine(line string) bool {

	return strings.Count(line, "\t") == NumFields-1
}

// ParseRecord parses a feature line, returning false for pragmas, comments,
// FASTA, and any line without exactly nine columns.
func ParseRecord(line string) (*Record, bool) {

	if line == "" || line[0] == '#' {
		return nil, false
	}

	cols := strings.Split(line, "\t")
	if len(cols) != NumFields {
		return nil, false
	}

	rec := &Record{}
	copy(rec.Fields[:], cols[:FieldAttributes])
	rec.Attrs = ParseAttributes(cols[FieldAttributes])

	return rec, true
}

// ParseAttributes splits column 9 into ordered pairs. Empty segments from doubled
// or trailing semicolons are dropped, and a segment without '=' becomes a bare
// key that is written back without '='.
func ParseAttributes(str string) []Attribute {

	if str == "" || str == "." {
		return nil
	}

	var attrs []Attribute

	for _, seg := range strings.Split(str, ";") {
		if seg == "" {
			continue
		}
		key, val, found := strings.Cut(seg, "=")
		attrs = append(attrs, Attribute{Key: key, Value: val, NoValue: !found})
	}

	return attrs
}

// Seqid returns column 1
func (rec *Record) Seqid() string {

	return rec.Fields[FieldSeqid]
}

// Type returns column 3
func (rec *Record) Type() string {

	return rec.Fields[FieldType]
}

// Start returns column 4 as an integer, or 0 if it is not numeric
func (rec *Record) Start() int {

	val, _ := strconv.Atoi(rec.Fields[FieldStart])
	return val
}

// End returns column 5 as an integer, or 0 if it is not numeric
func (rec *Record) End() int {

	val, _ := strconv.Atoi(rec.Fields[FieldEnd])
	return val
}

// Get returns the value of the first attribute with the given key
func (rec *Record) Get(key string) (string, bool) {

	for _, attr := range rec.Attrs {
		if attr.Key == key {
			return attr.Value, true
		}
	}

	return "", false
}

// Value returns the value of an attribute, or an empty string if absent
func (rec *Record) Value(key string) string {

	val, _ := rec.Get(key)
	return val
}

// Has reports whether an attribute with a non-empty value is present
func (rec *Record) Has(key string) bool {

	return rec.Value(key) != ""
}

// Set replaces the value of an existing attribute in place, or appends it
func (rec *Record) Set(key, value string) {

	for i, attr := range rec.Attrs {
		if attr.Key == key {
			rec.Attrs[i].Value = value
			rec.Attrs[i].NoValue = false
			return
		}
	}

	rec.Attrs = append(rec.Attrs, Attribute{Key: key, Value: value})
}

// Prepend inserts an attribute ahead of all others
func (rec *Record) Prepend(key, value string) {

	rec.Attrs = append([]Attribute{{Key: key, Value: value}}, rec.Attrs...)
}

// Delete removes every attribute with the given key
func (rec *Record) Delete(key string) {

	kept := rec.Attrs[:0]
	for _, attr := range rec.Attrs {
		if attr.Key != key {
			kept = append(kept, attr)
		}
	}
	rec.Attrs = kept
}

// Rename changes the key of an attribute, keeping its position and value
func (rec *Record) Rename(from, to string) {

	for i, attr := range rec.Attrs {
		if attr.Key == from {
			rec.Attrs[i].Key = to
		}
	}
}

// GeneID returns the NCBI Gene identifier from a "GeneID:" cross reference in
// any attribute value, normally Dbxref, stopping at the next comma.
func (rec *Record) GeneID() string {

	for _, attr := range rec.Attrs {
		_, after, found := strings.Cut(attr.Value, "GeneID:")
		if !found {
			continue
		}
		if pos := strings.Index(after, ","); pos >= 0 {
			after = after[:pos]
		}
		if after != "" {
			return after
		}
	}

	return ""
}

// AttributeString rebuilds column 9. Empty segments are not restored.
func (rec *Record) AttributeString() string {

	if len(rec.Attrs) == 0 {
		return "."
	}

	var buffer strings.Builder

	for i, attr := range rec.Attrs {
		if i > 0 {
			buffer.WriteString(";")
		}
		buffer.WriteString(attr.Key)
		if attr.NoValue {
			continue
		}
		buffer.WriteString("=")
		buffer.WriteString(attr.Value)
	}

	return buffer.String()
}

// String rebuilds the tab-delimited feature line
func (rec *Record) String() string {

	var buffer strings.Builder

	for _, fld := range rec.Fields {
		buffer.WriteString(fld)
		buffer.WriteString("\t")
	}
	buffer.WriteString(rec.AttributeString())

	return buffer.String()
}

// ParseSequenceRegion parses a "##sequence-region seqid start end" pragma
func ParseSequenceRegion(line string) (SequenceRegion, bool) {

	if !strings.HasPrefix(line, "##sequence-region") {
		return SequenceRegion{}, false
	}

	flds := strings.Fields(line)
	if len(flds) != 4 || flds[0] != "##sequence-region" {
		return SequenceRegion{}, false
	}

	start, err := strconv.Atoi(flds[2])
	if err != nil {
		return SequenceRegion{}, false
	}
	end, err := strconv.Atoi(flds[3])
	if err != nil {
		return SequenceRegion{}, false
	}

	return SequenceRegion{Seqid: flds[1], Start: start, End: end}, true
}

// String formats the pragma with single-space separators
func (sr SequenceRegion) String() string {

	return "##sequence-region " + sr.Seqid + " " + strconv.Itoa(sr.Start) + " " + strconv.Itoa(sr.End)
}

// newLineScanner returns a line scanner with room for very long attribute columns
func newLineScanner(inp io.Reader) *bufio.Scanner {

	scanr := bufio.NewScanner(inp)

	// override scanner limit to allow reading of lines with very long attribute lists
	const bufferSize = 1024 * 1024
	buf := make([]byte, bufferSize)
	scanr.Buffer(buf, bufferSize)

	return scanr
}
