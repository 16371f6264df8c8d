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
// File Name:  sources.go
//
// ==========================================================================

package hubutils

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

// SourceNames lists the annotation providers in command-line order
var SourceNames = []string{"refseq", "ncbi_flybase", "beebase", "crg", "pdom", "tair", "local"}

// transcript-like feature types that receive their own accession
var transcriptTypes = map[string]bool{
	"mRNA":               true,
	"tRNA":               true,
	"rRNA":               true,
	"ncRNA":              true,
	"transcript":         true,
	"primary_transcript": true,
}

// immune receptor segments whose exons and CDSs hang directly off the gene
var segmentTypes = map[string]bool{
	"V_gene_segment": true,
	"C_gene_segment": true,
}

// gene biotypes registered as V(D)J segment owners
var segmentBiotypes = map[string]bool{
	"V_segment": true,
	"C_region":  true,
}

// features resolved through their Parent
var childTypes = map[string]bool{
	"exon":   true,
	"intron": true,
	"CDS":    true,
}

// noise feature types in RefSeq-family files
var alignmentTypes = map[string]bool{
	"region":     true,
	"match":      true,
	"cDNA_match": true,
}

// SourceTraits holds provider properties consulted by later stages
type SourceTraits struct {
	// ExonType is the feature type whose union forms the mature mRNA
	ExonType string
	// ProteinsOnCDS is set when protein IDs are CDS attributes rather than mRNA attributes
	ProteinsOnCDS bool
	// UniqueProteinNames makes a repeated protein identifier fatal
	UniqueProteinNames bool
	// LenientLocusParent tolerates genes without an enclosing iLocus
	LenientLocusParent bool
	// FixRegions rebuilds ##sequence-region pragmas from the genomic FASTA
	FixRegions bool
}

// SourceAdapter encodes the conventions of one annotation provider
type SourceAdapter interface {
	Name() string
	Traits() SourceTraits

	// IsNoise reports provider records that are discarded outright
	IsNoise(rec *Record) bool
	// IsNoisePragma reports provider directives that are discarded outright
	IsNoisePragma(line string) bool

	GeneAccession(rec *Record) (string, error)
	TranscriptAccession(rec *Record) (string, error)
	SegmentAccession(rec *Record) (string, error)
	ProteinID(rec *Record) (string, error)

	// Preprocess repairs provider-specific defects in the raw annotation
	Preprocess(inp io.Reader, out io.Writer) error
	// FormatDefline normalizes a FASTA definition line, including the '>'
	FormatDefline(defline string) string
}

// ACCESSION RULES

// ruleStep extracts one candidate value from a record, or returns ""
type ruleStep struct {
	label   string
	extract func(rec *Record) string
}

func attrStep(key string) ruleStep {

	return ruleStep{
		label: key,
		extract: func(rec *Record) string {
			return rec.Value(key)
		},
	}
}

var geneIDStep = ruleStep{
	label: "GeneID",
	extract: func(rec *Record) string {
		return rec.GeneID()
	},
}

// synthesizedStep builds "<GeneID>:<type>" for transcripts with no accession of their own
var synthesizedStep = ruleStep{
	label: "GeneID:type",
	extract: func(rec *Record) string {
		gid := rec.GeneID()
		if gid == "" {
			return ""
		}
		return gid + ":" + rec.Type()
	},
}

// accessionRule is an ordered precedence list, the first non-empty step wins
type accessionRule struct {
	name  string
	steps []ruleStep
}

func newRule(name string, steps ...ruleStep) accessionRule {

	return accessionRule{name: name, steps: steps}
}

func (ar accessionRule) String() string {

	labels := make([]string, 0, len(ar.steps))
	for _, stp := range ar.steps {
		labels = append(labels, stp.label)
	}

	return ar.name + " [" + strings.Join(labels, " | ") + "]"
}

func (ar accessionRule) apply(source string, rec *Record) (string, error) {

	for _, stp := range ar.steps {
		if val := stp.extract(rec); val != "" {
			return val, nil
		}
	}

	return "", newIntegrityError(source, rec, ar.String(), nil)
}

// PROVIDERS

// provider carries the rule tables shared by every adapter
type provider struct {
	name       string
	label      string
	traits     SourceTraits
	noisy      bool
	gene       accessionRule
	transcript accessionRule
	segment    accessionRule
	protein    accessionRule
}

func (p *provider) Name() string {

	return p.name
}

func (p *provider) Traits() SourceTraits {

	return p.traits
}

func (p *provider) IsNoise(rec *Record) bool {

	return p.noisy && alignmentTypes[rec.Type()]
}

func (p *provider) IsNoisePragma(line string) bool {

	return p.noisy && strings.HasPrefix(line, "##species")
}

func (p *provider) GeneAccession(rec *Record) (string, error) {

	return p.gene.apply(p.name, rec)
}

func (p *provider) TranscriptAccession(rec *Record) (string, error) {

	return p.transcript.apply(p.name, rec)
}

func (p *provider) SegmentAccession(rec *Record) (string, error) {

	return p.segment.apply(p.name, rec)
}

func (p *provider) ProteinID(rec *Record) (string, error) {

	return p.protein.apply(p.name, rec)
}

func (p *provider) Preprocess(inp io.Reader, out io.Writer) error {

	return rewriteLines(inp, out, nil)
}

func (p *provider) FormatDefline(defline string) string {

	return defline
}

// refseqSource handles NCBI RefSeq annotation releases
type refseqSource struct {
	provider
}

var giDefline = regexp.MustCompile(`^>gi\|\d+\|(?:ref|gb)\|([^|]+)\S+`)

// FormatDefline reduces legacy "gi|...|ref|ACC|" deflines to the accession
func (p *refseqSource) FormatDefline(defline string) string {

	return giDefline.ReplaceAllString(defline, ">$1")
}

// flybaseSource handles FlyBase annotations redistributed by NCBI
type flybaseSource struct {
	refseqSource
}

// Preprocess gives tRNA genes the IDs their tRNA children point to
func (p *flybaseSource) Preprocess(inp io.Reader, out io.Writer) error {

	return fixTRNAs(inp, out)
}

// beebaseSource handles BeeBase and HymenopteraBase gene sets
type beebaseSource struct {
	provider
}

// Preprocess drops region records, which BeeBase files carry for every scaffold
func (p *beebaseSource) Preprocess(inp io.Reader, out io.Writer) error {

	return rewriteLines(inp, out, func(rec *Record) bool {
		return rec.Type() != "region"
	})
}

var gnlDefline = regexp.MustCompile(`^>gnl\|[^|]+\|(\S+)`)

// FormatDefline puts the bare identifier ahead of a "gnl|db|id" defline
func (p *beebaseSource) FormatDefline(defline string) string {

	mtch := gnlDefline.FindStringSubmatch(defline)
	if mtch == nil {
		return defline
	}

	return ">" + mtch[1] + " " + defline[1:]
}

// crgSource handles gene sets from the Centre for Genomic Regulation
type crgSource struct {
	provider
}

// scaffold renames CRG "scaffold_N" sequences to "<label>Scf_N"
func (p *crgSource) scaffold(seqid string) string {

	if rest, ok := strings.CutPrefix(seqid, "scaffold_"); ok {
		return p.label + "Scf_" + rest
	}
	if rest, ok := strings.CutPrefix(seqid, "scaffold"); ok {
		return p.label + "Scf_" + rest
	}

	return seqid
}

// Preprocess converts transcript records to mRNA and renames scaffolds
func (p *crgSource) Preprocess(inp io.Reader, out io.Writer) error {

	return rewriteLinesWith(inp, out, func(line string) string {
		if sr, ok := ParseSequenceRegion(line); ok {
			sr.Seqid = p.scaffold(sr.Seqid)
			return sr.String()
		}
		return line
	}, func(rec *Record) bool {
		if rec.Fields[FieldType] == "transcript" {
			rec.Fields[FieldType] = "mRNA"
		}
		rec.Fields[FieldSeqid] = p.scaffold(rec.Fields[FieldSeqid])
		return true
	})
}

// FormatDefline applies the scaffold renaming to genomic sequences
func (p *crgSource) FormatDefline(defline string) string {

	seqid, rest := SplitInTwoLeft(strings.TrimPrefix(defline, ">"), " ")
	seqid = p.scaffold(seqid)
	if rest == "" {
		return ">" + seqid
	}

	return ">" + seqid + " " + rest
}

// tairSource handles The Arabidopsis Information Resource releases
type tairSource struct {
	provider
}

// Preprocess lowercases the reserved-looking "Index" attribute
func (p *tairSource) Preprocess(inp io.Reader, out io.Writer) error {

	return rewriteLines(inp, out, func(rec *Record) bool {
		rec.Rename("Index", "index")
		return true
	})
}

// genericSource covers pdom and local files that need no repair
type genericSource struct {
	provider
}

// NewSourceAdapter returns the adapter for a provider name. The genome label is
// used by providers that rename sequences.
func NewSourceAdapter(name, label string) (SourceAdapter, error) {

	base := provider{
		name:    name,
		label:   label,
		traits:  SourceTraits{ExonType: "exon"},
		segment: newRule("segment accession", geneIDStep),
		protein: newRule("protein ID", attrStep("protein_id"), attrStep("Name")),
	}

	switch name {
	case "refseq", "ncbi_flybase":
		base.noisy = true
		base.traits.ProteinsOnCDS = true
		base.gene = newRule("gene accession", geneIDStep)
		base.transcript = newRule("transcript accession", attrStep("transcript_id"), synthesizedStep)
		base.protein = newRule("protein ID", attrStep("protein_id"))
		if name == "ncbi_flybase" {
			return &flybaseSource{refseqSource{base}}, nil
		}
		return &refseqSource{base}, nil
	case "beebase":
		base.traits.ExonType = "CDS"
		base.traits.FixRegions = true
		base.gene = newRule("gene accession", attrStep("Name"), attrStep("ID"))
		base.transcript = newRule("transcript accession", attrStep("Name"))
		base.protein = newRule("protein ID", ruleStep{
			label: "Name(-RA>-PA)",
			extract: func(rec *Record) string {
				return strings.ReplaceAll(rec.Value("Name"), "-RA", "-PA")
			},
		})
		return &beebaseSource{base}, nil
	case "crg":
		base.traits.FixRegions = true
		base.gene = newRule("gene accession", attrStep("ID"))
		base.transcript = newRule("transcript accession", attrStep("ID"))
		return &crgSource{base}, nil
	case "pdom":
		base.gene = newRule("gene accession", attrStep("Name"))
		base.transcript = newRule("transcript accession", attrStep("ID"))
		return &genericSource{base}, nil
	case "tair":
		base.traits.UniqueProteinNames = true
		base.traits.LenientLocusParent = true
		base.gene = newRule("gene accession", attrStep("ID"))
		base.transcript = newRule("transcript accession", attrStep("Name"), attrStep("ID"))
		base.protein = newRule("protein ID", attrStep("Name"))
		return &tairSource{base}, nil
	case "local":
		base.traits.FixRegions = true
		base.gene = newRule("gene accession", geneIDStep, attrStep("ID"), attrStep("Name"))
		base.transcript = newRule("transcript accession", attrStep("transcript_id"), attrStep("ID"), attrStep("Name"), synthesizedStep)
		return &genericSource{base}, nil
	}

	valid := append([]string(nil), SourceNames...)
	sort.Strings(valid)

	return nil, fmt.Errorf("unknown annotation source %q, expected one of %s", name, strings.Join(valid, ", "))
}
