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
// File Name:  resolver.go
//
// ==========================================================================

package hubutils

import (
	"strings"
)

// AccessionResolver assigns accessions to the records of one annotation file in
// a single pass. Parents must precede their children, which the upstream sort
// guarantees. A resolver is used for one file and then discarded.
type AccessionResolver struct {
	source SourceAdapter

	// transcript ID to accession
	transcripts map[string]string
	// V(D)J gene or segment ID to accession
	segments map[string]string

	// Warn receives non-fatal diagnostics, defaulting to DisplayWarning
	Warn func(format string, params ...interface{})
}

// NewAccessionResolver creates an empty resolver for one provider
func NewAccessionResolver(source SourceAdapter) *AccessionResolver {

	return &AccessionResolver{
		source:      source,
		transcripts: make(map[string]string),
		segments:    make(map[string]string),
		Warn:        DisplayWarning,
	}
}

// register stores a value only if the ID is not already present
func register(mp map[string]string, id, accession string) {

	if id == "" {
		return
	}
	if _, ok := mp[id]; !ok {
		mp[id] = accession
	}
}

// TranscriptAccession returns the accession registered for a transcript ID
func (ar *AccessionResolver) TranscriptAccession(id string) (string, bool) {

	acc, ok := ar.transcripts[id]
	return acc, ok
}

// SegmentAccession returns the accession registered for a V(D)J gene or segment ID
func (ar *AccessionResolver) SegmentAccession(id string) (string, bool) {

	acc, ok := ar.segments[id]
	return acc, ok
}

// Resolve returns the accession for a record, or "" for types that carry none.
// A record that already has an accession attribute keeps it, and that value is
// registered exactly as a computed one would be.
func (ar *AccessionResolver) Resolve(rec *Record) (string, error) {

	name := ar.source.Name()
	ftype := rec.Type()
	existing := rec.Value("accession")

	switch {
	case ftype == "gene":
		acc := existing
		if acc == "" {
			var err error
			acc, err = ar.source.GeneAccession(rec)
			if err != nil {
				return "", err
			}
		}
		if segmentBiotypes[rec.Value("gene_biotype")] {
			id := rec.Value("ID")
			if id == "" {
				return "", newIntegrityError(name, rec, "V(D)J gene ID [ID]", nil)
			}
			register(ar.segments, id, acc)
		}
		return acc, nil

	case transcriptTypes[ftype]:
		acc := existing
		if acc == "" {
			var err error
			acc, err = ar.source.TranscriptAccession(rec)
			if err != nil {
				return "", err
			}
		}
		if id := rec.Value("ID"); id != "" {
			register(ar.transcripts, id, acc)
		} else if ar.Warn != nil {
			ar.Warn("%s has no ID: %s", ftype, rec.String())
		}
		return acc, nil

	case segmentTypes[ftype]:
		acc := existing
		if acc == "" {
			var err error
			acc, err = ar.source.SegmentAccession(rec)
			if err != nil {
				return "", err
			}
		}
		id := rec.Value("ID")
		parent := rec.Value("Parent")
		if id == "" || parent == "" {
			return "", newIntegrityError(name, rec, "V(D)J segment hierarchy [ID, Parent]", nil)
		}
		if strings.Contains(parent, ",") {
			return "", newIntegrityError(name, rec, "single parent [Parent]", ErrMultipleParents)
		}
		register(ar.segments, id, acc)
		register(ar.segments, parent, acc)
		return acc, nil

	case childTypes[ftype]:
		parent := rec.Value("Parent")
		if parent == "" {
			return "", newIntegrityError(name, rec, "parent reference [Parent]", nil)
		}
		if strings.Contains(parent, ",") {
			return "", newIntegrityError(name, rec, "single parent [Parent]", ErrMultipleParents)
		}
		acc, ok := ar.transcripts[parent]
		if !ok {
			acc, ok = ar.segments[parent]
		}
		if !ok {
			return "", newIntegrityError(name, rec, "parent resolution [transcript | V(D)J segment]", nil)
		}
		if existing != "" {
			return existing, nil
		}
		return acc, nil
	}

	return existing, nil
}
