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
// File Name:  build.go
//
// ==========================================================================

package hubutils

import (
	"context"
	"fmt"
	"io"
	"os"
)

// BuildTasks lists the build steps in execution order
var BuildTasks = []string{"format", "prepare"}

// Builder runs the build steps for individual genomes
type Builder struct {
	Tools ToolSet
}

// formatFASTAFile normalizes a raw FASTA file into the genome directory
func formatFASTAFile(db *GenomeDB, rawName, outPath string) (int, error) {

	inp, err := OpenInput(db.RawPath(rawName))
	if err != nil {
		return 0, err
	}
	defer inp.Close()

	out, err := CreateOutput(outPath)
	if err != nil {
		return 0, err
	}

	count, err := FormatFASTA(inp, out, db.Source)
	if err != nil {
		out.Close()
		return count, err
	}

	return count, out.Close()
}

// fixRegionsStage rebuilds sequence-region pragmas from the formatted genomic FASTA
func fixRegionsStage(db *GenomeDB) (Stage, error) {

	if !db.Source.Traits().FixRegions || db.Config.Scaffolds == "" {
		return nil, nil
	}

	fl, err := os.Open(db.GDNAPath())
	if err != nil {
		return nil, err
	}
	defer fl.Close()

	lengths, order, err := SequenceLengths(fl)
	if err != nil {
		return nil, err
	}

	// the annotation is already prefixed when this stage runs
	if prefix := db.Config.Prefix; prefix != "" {
		prefixed := make(map[string]int, len(lengths))
		for i, seqid := range order {
			prefixed[prefix+seqid] = lengths[seqid]
			order[i] = prefix + seqid
		}
		lengths = prefixed
	}

	return func(inp io.Reader, out io.Writer) error {
		return FixSequenceRegions(inp, out, lengths, order)
	}, nil
}

// Format writes the normalized genomic sequences, proteins, and annotation. The
// annotation passes through the exclusion filter, provider preprocessing, the
// optional cleanup tool, accession resolution, pragma repair, and sort/tidy.
func (bld *Builder) Format(ctx context.Context, db *GenomeDB) (FormatStats, error) {

	cfg := db.Config

	if cfg.Scaffolds != "" {
		Progress(cfg.Species, "formatting genome sequences")
		if _, err := formatFASTAFile(db, cfg.Scaffolds, db.GDNAPath()); err != nil {
			return FormatStats{}, fmt.Errorf("genome sequences: %w", err)
		}
	}

	if cfg.Proteins != "" {
		Progress(cfg.Species, "formatting protein sequences")
		if _, err := formatFASTAFile(db, cfg.Proteins, db.AllProteinPath()); err != nil {
			return FormatStats{}, fmt.Errorf("protein sequences: %w", err)
		}
	}

	Progress(cfg.Species, "formatting genome annotation")

	inp, err := OpenInput(db.RawPath(cfg.Annotation))
	if err != nil {
		return FormatStats{}, err
	}
	defer inp.Close()

	regions, err := fixRegionsStage(db)
	if err != nil {
		return FormatStats{}, fmt.Errorf("sequence regions: %w", err)
	}

	var exclude Stage
	filter := NewExclusionFilter(cfg.AnnotFilter)
	if filter.Len() > 0 {
		exclude = filter.Filter
	}

	var stats FormatStats
	normalize := func(inp io.Reader, out io.Writer) error {
		var err error
		stats, err = FormatGFF3(inp, out, db.Source, FormatOptions{
			Prefix: cfg.Prefix,
			Warn: func(format string, params ...interface{}) {
				DisplayWarning("["+db.Label()+"] "+format, params...)
			},
		})
		return err
	}

	chain := Chain(inp, exclude, db.Source.Preprocess, bld.Tools.TidyStage(ctx, db.Label()), normalize, regions)

	err = bld.Tools.SortTidy(ctx, db.Label(), chain, db.GFF3Path())

	// stats are complete once every stage has returned
	chain.Close()
	if serr := chain.Err(); serr != nil {
		removeOutput(db.GFF3Path())
		return stats, serr
	}
	if err != nil {
		return stats, err
	}

	Progress(cfg.Species, "annotation contains %s", stats.TypeSummary())

	return stats, nil
}

// PrepareStats summarizes the derived data of one genome
type PrepareStats struct {
	Mappings    int
	ProteinIDs  int
	Proteins    int
	SimpleILoci int
	MatureMRNAs int
}

// readGenomeFile opens a genome file and applies a reader to it
func readGenomeFile(path string, proc func(inp io.Reader) error) error {

	fl, err := OpenInput(path)
	if err != nil {
		return err
	}
	defer fl.Close()

	return proc(fl)
}

// writeGenomeFile creates a genome file and applies a writer to it, removing
// the file if the writer fails
func writeGenomeFile(path string, proc func(out io.Writer) error) error {

	out, err := CreateOutput(path)
	if err != nil {
		return err
	}

	if err := proc(out); err != nil {
		out.Close()
		removeOutput(path)
		return err
	}

	return out.Close()
}

// Prepare computes iLoci and derives the protein to iLocus table, the protein ID
// list and sequences, the simple iLocus list, and the mature mRNA intervals.
func (bld *Builder) Prepare(ctx context.Context, db *GenomeDB) (PrepareStats, error) {

	cfg := db.Config
	var stats PrepareStats

	Progress(cfg.Species, "computing interval loci")
	if err := bld.Tools.ComputeILoci(ctx, db); err != nil {
		return stats, err
	}

	Progress(cfg.Species, "parsing protein->iLocus mapping")
	var mappings []ProteinMapping
	err := readGenomeFile(db.ILocusPath(), func(inp io.Reader) error {
		var err error
		mappings, err = ProteinMappings(inp, db.Source)
		return err
	})
	if err != nil {
		return stats, err
	}
	err = writeGenomeFile(db.ProteinTablePath(), func(out io.Writer) error {
		return WriteProteinTable(out, mappings)
	})
	if err != nil {
		return stats, err
	}
	stats.Mappings = len(mappings)

	Progress(cfg.Species, "determining simple iLoci")
	var simple []string
	err = readGenomeFile(db.ILocusPath(), func(inp io.Reader) error {
		var err error
		simple, err = SimpleILoci(inp)
		return err
	})
	if err != nil {
		return stats, err
	}
	err = writeGenomeFile(db.SimpleILocusPath(), func(out io.Writer) error {
		return WriteList(out, simple)
	})
	if err != nil {
		return stats, err
	}
	stats.SimpleILoci = len(simple)

	Progress(cfg.Species, "extracting protein IDs")
	var ids []string
	err = readGenomeFile(db.GFF3Path(), func(inp io.Reader) error {
		var err error
		ids, err = ProteinIDs(inp, db.Source)
		return err
	})
	if err != nil {
		return stats, err
	}
	err = writeGenomeFile(db.ProteinIDPath(), func(out io.Writer) error {
		return WriteList(out, ids)
	})
	if err != nil {
		return stats, err
	}
	stats.ProteinIDs = len(ids)

	if _, err := os.Stat(db.AllProteinPath()); err == nil {
		Progress(cfg.Species, "extracting protein sequences")
		err = readGenomeFile(db.AllProteinPath(), func(inp io.Reader) error {
			return writeGenomeFile(db.ProteinPath(), func(out io.Writer) error {
				var err error
				stats.Proteins, err = SelectProteins(inp, out, ids, db.Label())
				return err
			})
		})
		if err != nil {
			return stats, err
		}
	}

	Progress(cfg.Species, "calculating mature mRNA intervals")
	conv := NewExonConverter(db.Source)
	if cfg.KeepMRNAs {
		// original mRNA records followed by their exons
		conv.Convert = false
		conv.KeepMRNAs = true
	}

	// converted mRNAs carry no exons to place introns between
	tools := bld.Tools
	tools.Introns = false

	err = readGenomeFile(db.GFF3Path(), func(inp io.Reader) error {
		exons := func(inp io.Reader, out io.Writer) error {
			var err error
			stats.MatureMRNAs, err = conv.Run(inp, out)
			return err
		}
		chain := Chain(inp, exons)
		err := tools.SortTidy(ctx, db.Label(), chain, db.MRNAPath())
		chain.Close()
		if serr := chain.Err(); serr != nil {
			removeOutput(db.MRNAPath())
			return serr
		}
		return err
	})
	if err != nil {
		return stats, err
	}

	return stats, nil
}
