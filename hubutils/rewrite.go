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
// File Name:  rewrite.go
//
// ==========================================================================

package hubutils

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strings"
)

// FeatureRewriter attaches accessions and applies the sequence ID prefix. The
// same prefix rule is used for feature lines and ##sequence-region pragmas.
type FeatureRewriter struct {
	Prefix string
}

var regionPragma = regexp.MustCompile(`^##sequence-region(\s+)(\S+)`)

// Rewrite returns the feature line with an accession attribute appended, unless
// one is already present, and with the prefixed sequence ID. The record itself
// is not modified.
func (fr FeatureRewriter) Rewrite(rec *Record, accession string) string {

	cpy := *rec
	cpy.Attrs = append([]Attribute(nil), rec.Attrs...)

	if accession != "" {
		if _, ok := cpy.Get("accession"); !ok {
			cpy.Attrs = append(cpy.Attrs, Attribute{Key: "accession", Value: accession})
		}
	}

	if fr.Prefix != "" {
		cpy.Fields[FieldSeqid] = fr.Prefix + cpy.Fields[FieldSeqid]
	}

	return cpy.String()
}

// RewritePragma prefixes the sequence name of a ##sequence-region pragma,
// keeping its original spacing, and returns any other line unchanged
func (fr FeatureRewriter) RewritePragma(line string) string {

	if fr.Prefix == "" || !strings.HasPrefix(line, "##sequence-region") {
		return line
	}

	repl := "##sequence-region${1}" + strings.ReplaceAll(fr.Prefix, "$", "$$") + "${2}"

	return regionPragma.ReplaceAllString(line, repl)
}

// Strip removes the prefix from a feature seqid or pragma sequence name
func (fr FeatureRewriter) Strip(line string) string {

	if fr.Prefix == "" {
		return line
	}

	if mtch := regionPragma.FindStringSubmatchIndex(line); mtch != nil {
		name := line[mtch[4]:mtch[5]]
		if trimmed, ok := strings.CutPrefix(name, fr.Prefix); ok {
			return line[:mtch[4]] + trimmed + line[mtch[5]:]
		}
		return line
	}

	if IsFeatureLine(line) && line[0] != '#' {
		if trimmed, ok := strings.CutPrefix(line, fr.Prefix); ok {
			return trimmed
		}
	}

	return line
}

// FormatOptions controls one normalization pass
type FormatOptions struct {
	Prefix  string
	Exclude *ExclusionFilter
	// Warn receives non-fatal diagnostics, defaulting to DisplayWarning
	Warn func(format string, params ...interface{})
}

// FormatStats summarizes one normalization pass
type FormatStats struct {
	Records  int
	Noise    int
	Pseudo   int
	Excluded int
	Types    map[string]int
}

// TypeSummary lists per-type record counts in alphabetical order
func (fs FormatStats) TypeSummary() string {

	keys := make([]string, 0, len(fs.Types))
	for key := range fs.Types {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var items []string
	for _, key := range keys {
		items = append(items, CountPhrase(fs.Types[key], key))
	}

	return strings.Join(items, ", ")
}

// isPseudogenicCDS matches CDS records of pseudogenes, which are never resolved
func isPseudogenicCDS(rec *Record) bool {

	return rec.Type() == "CDS" && rec.Value("pseudo") == "true"
}

// FormatGFF3 normalizes one provider annotation stream. Provider noise and
// pseudogenic CDSs are dropped, every resolvable record gets its accession, and
// the prefix is applied. Comments and other pragmas pass through. The first
// integrity violation stops the pass.
func FormatGFF3(inp io.Reader, out io.Writer, source SourceAdapter, opts FormatOptions) (FormatStats, error) {

	stats := FormatStats{Types: make(map[string]int)}

	resolver := NewAccessionResolver(source)
	if opts.Warn != nil {
		resolver.Warn = opts.Warn
	}
	rewriter := FeatureRewriter{Prefix: opts.Prefix}

	wrtr := bufio.NewWriter(out)

	scanr := newLineScanner(inp)
	for scanr.Scan() {

		line := strings.TrimRight(scanr.Text(), " \r\n")

		if opts.Exclude.Excludes(line) {
			stats.Excluded++
			continue
		}

		rec, ok := ParseRecord(line)
		if !ok {
			if source.IsNoisePragma(line) {
				stats.Noise++
				continue
			}
			wrtr.WriteString(rewriter.RewritePragma(line))
			wrtr.WriteString("\n")
			continue
		}

		if source.IsNoise(rec) {
			stats.Noise++
			continue
		}
		if isPseudogenicCDS(rec) {
			stats.Pseudo++
			continue
		}

		acc, err := resolver.Resolve(rec)
		if err != nil {
			wrtr.Flush()
			return stats, err
		}

		stats.Records++
		stats.Types[rec.Type()]++

		wrtr.WriteString(rewriter.Rewrite(rec, acc))
		wrtr.WriteString("\n")
	}
	if err := scanr.Err(); err != nil {
		return stats, err
	}

	return stats, wrtr.Flush()
}
