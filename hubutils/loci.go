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
// File Name:  loci.go
//
// ==========================================================================

package hubutils

import (
	"io"
	"strings"
)

// ProteinMapping pairs a protein accession with the name of its enclosing iLocus
type ProteinMapping struct {
	Protein string
	Locus   string
}

// LocusCrossReferencer walks the locus, gene, and mRNA (or CDS) records of an
// iLocus GFF3 file and reports the iLocus of every protein. It holds the maps
// for one file and is discarded afterwards.
type LocusCrossReferencer struct {
	source SourceAdapter

	// locus ID to locus Name
	locusNames map[string]string
	// gene ID to locus ID
	geneLoci map[string]string
	// mRNA ID to gene ID, for providers with proteins on CDS records
	mrnaGenes map[string]string
	// genes skipped under lenient handling
	skipped map[string]bool
	// proteins already reported from CDS records
	proteins map[string]bool

	// Warn receives non-fatal diagnostics, defaulting to DisplayWarning
	Warn func(format string, params ...interface{})
}

// NewLocusCrossReferencer creates an empty cross-referencer for one provider
func NewLocusCrossReferencer(source SourceAdapter) *LocusCrossReferencer {

	return &LocusCrossReferencer{
		source:     source,
		locusNames: make(map[string]string),
		geneLoci:   make(map[string]string),
		mrnaGenes:  make(map[string]string),
		skipped:    make(map[string]bool),
		proteins:   make(map[string]bool),
		Warn:       DisplayWarning,
	}
}

// locusName follows a gene ID up to its iLocus name
func (lx *LocusCrossReferencer) locusName(rec *Record, geneID string) (string, error) {

	locusID, ok := lx.geneLoci[geneID]
	if !ok {
		return "", newIntegrityError(lx.source.Name(), rec, "gene to iLocus ["+geneID+"]", nil)
	}
	name, ok := lx.locusNames[locusID]
	if !ok {
		return "", newIntegrityError(lx.source.Name(), rec, "iLocus name ["+locusID+"]", nil)
	}

	return name, nil
}

// Scan calls emit for every protein in input order. Proteins on mRNA records are
// reported once per record, so a repeated mRNA is reported again; proteins on
// CDS records are reported once. Any unresolvable reference is fatal.
func (lx *LocusCrossReferencer) Scan(inp io.Reader, emit func(ProteinMapping) error) error {

	name := lx.source.Name()
	traits := lx.source.Traits()

	scanr := newLineScanner(inp)
	for scanr.Scan() {

		rec, ok := ParseRecord(strings.TrimRight(scanr.Text(), " \r\n"))
		if !ok {
			continue
		}

		switch rec.Type() {
		case "locus":
			id, nm := rec.Value("ID"), rec.Value("Name")
			if id != "" && nm != "" {
				lx.locusNames[id] = nm
			}

		case "gene":
			id, parent := rec.Value("ID"), rec.Value("Parent")
			if id == "" || parent == "" {
				if traits.LenientLocusParent {
					if lx.Warn != nil {
						lx.Warn("unable to parse gene and iLocus IDs, skipping gene: %s", rec.AttributeString())
					}
					if id != "" {
						lx.skipped[id] = true
					}
					continue
				}
				return newIntegrityError(name, rec, "gene to iLocus [ID, Parent]", nil)
			}
			lx.geneLoci[id] = parent

		case "mRNA":
			parent := rec.Value("Parent")
			if traits.ProteinsOnCDS {
				id := rec.Value("ID")
				if id == "" || parent == "" {
					return newIntegrityError(name, rec, "mRNA to gene [ID, Parent]", nil)
				}
				lx.mrnaGenes[id] = parent
				continue
			}
			if parent == "" {
				return newIntegrityError(name, rec, "mRNA to gene [Parent]", nil)
			}
			if lx.skipped[parent] {
				continue
			}
			protein, err := lx.source.ProteinID(rec)
			if err != nil {
				return err
			}
			locus, err := lx.locusName(rec, parent)
			if err != nil {
				return err
			}
			if err := emit(ProteinMapping{Protein: protein, Locus: locus}); err != nil {
				return err
			}

		case "CDS":
			if !traits.ProteinsOnCDS {
				continue
			}
			parent := rec.Value("Parent")
			if parent == "" {
				return newIntegrityError(name, rec, "CDS to mRNA [Parent]", nil)
			}
			protein, err := lx.source.ProteinID(rec)
			if err != nil {
				return err
			}
			if lx.proteins[protein] {
				continue
			}
			geneID, ok := lx.mrnaGenes[parent]
			if !ok {
				return newIntegrityError(name, rec, "mRNA to gene ["+parent+"]", nil)
			}
			if lx.skipped[geneID] {
				continue
			}
			locus, err := lx.locusName(rec, geneID)
			if err != nil {
				return err
			}
			lx.proteins[protein] = true
			if err := emit(ProteinMapping{Protein: protein, Locus: locus}); err != nil {
				return err
			}
		}
	}

	return scanr.Err()
}

// ProteinMappings collects every mapping from an iLocus GFF3 stream
func ProteinMappings(inp io.Reader, source SourceAdapter) ([]ProteinMapping, error) {

	var mappings []ProteinMapping

	lx := NewLocusCrossReferencer(source)
	err := lx.Scan(inp, func(pm ProteinMapping) error {
		mappings = append(mappings, pm)
		return nil
	})

	return mappings, err
}

// ProteinIDs lists the protein identifiers of an annotation in input order.
// CDS-borne identifiers are reported once each. Where protein names must be
// unique, a repeat is fatal.
func ProteinIDs(inp io.Reader, source SourceAdapter) ([]string, error) {

	traits := source.Traits()

	ftype := "mRNA"
	if traits.ProteinsOnCDS {
		ftype = "CDS"
	}

	var ids []string
	seen := make(map[string]bool)

	scanr := newLineScanner(inp)
	for scanr.Scan() {

		rec, ok := ParseRecord(strings.TrimRight(scanr.Text(), " \r\n"))
		if !ok || rec.Type() != ftype {
			continue
		}

		protein, err := source.ProteinID(rec)
		if err != nil {
			return ids, err
		}

		if seen[protein] {
			if traits.UniqueProteinNames {
				return ids, newIntegrityError(source.Name(), rec, "unique protein ID ["+protein+"]", nil)
			}
			if traits.ProteinsOnCDS {
				continue
			}
		}
		seen[protein] = true

		ids = append(ids, protein)
	}

	return ids, scanr.Err()
}

// SimpleILoci returns the names of iLoci holding exactly one gene that encodes mRNA
func SimpleILoci(inp io.Reader) ([]string, error) {

	var names []string

	scanr := newLineScanner(inp)
	for scanr.Scan() {

		rec, ok := ParseRecord(strings.TrimRight(scanr.Text(), " \r\n"))
		if !ok || rec.Type() != "locus" {
			continue
		}

		if _, hasMRNA := rec.Get("child_mRNA"); !hasMRNA {
			continue
		}
		if rec.Value("child_gene") != "1" {
			continue
		}

		name := rec.Value("Name")
		if name == "" {
			return names, newIntegrityError("", rec, "iLocus name [Name]", nil)
		}
		names = append(names, name)
	}

	return names, scanr.Err()
}
