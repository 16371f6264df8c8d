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
// File Name:  main.go
//
// ==========================================================================

package main

import (
	"errors"
	"fmt"
	"genhub/hubutils"
	"os"
	"strings"
)

const formatHelp = `
Filter features and parse accession values

Usage: genhub-format-gff3 [options] <gff3|->

  -s, --source     refseq, ncbi_flybase, beebase, crg, pdom, tair, or local
                     (default refseq)
  -p, --prefix     attach the given prefix to each sequence ID
  -x, --exclude    file of text patterns identifying lines to discard,
                     as with grep -v -f
  -o, --outfile    output file, default is the terminal

  -stats           print feature counts when done
  -timer           print processing time when done

Input and output files ending in .gz are decompressed and compressed.
`

type formatArgs struct {
	source  string
	prefix  string
	exclude string
	outfile string
	infile  string
	stts    bool
	timr    bool
}

var errHelp = errors.New("help requested")

// parseArguments reads flags in any order followed by one input file name
func parseArguments(args []string) (formatArgs, error) {

	opts := formatArgs{source: "refseq", infile: "-"}

	// getValue returns the argument following a flag
	getValue := func(name string) (string, error) {
		if len(args) < 2 {
			return "", fmt.Errorf("%s argument is missing", name)
		}
		val := args[1]
		args = args[1:]
		return val, nil
	}

	var positional []string
	var err error

	for len(args) > 0 {

		switch args[0] {
		case "-s", "--source", "-source":
			opts.source, err = getValue("-source")
		case "-p", "--prefix", "-prefix":
			opts.prefix, err = getValue("-prefix")
		case "-x", "--exclude", "-exclude":
			opts.exclude, err = getValue("-exclude")
		case "-o", "--outfile", "-outfile":
			opts.outfile, err = getValue("-outfile")
		case "-stats", "-stat":
			opts.stts = true
		case "-timer":
			opts.timr = true
		case "-h", "-help", "--help":
			return opts, errHelp
		case "-version", "--version":
			fmt.Printf("%s\n", hubutils.GenHubVersion)
			os.Exit(0)
		default:
			if strings.HasPrefix(args[0], "-") && args[0] != "-" {
				return opts, fmt.Errorf("unrecognized option '%s'", args[0])
			}
			positional = append(positional, args[0])
		}

		if err != nil {
			return opts, err
		}

		// skip past argument
		args = args[1:]
	}

	switch len(positional) {
	case 0:
	case 1:
		opts.infile = positional[0]
	default:
		return opts, fmt.Errorf("expected one input file, found %d", len(positional))
	}

	return opts, nil
}

// formatGFF3 normalizes one annotation file according to the parsed arguments
func formatGFF3(opts formatArgs) (hubutils.FormatStats, error) {

	source, err := hubutils.NewSourceAdapter(opts.source, "")
	if err != nil {
		return hubutils.FormatStats{}, err
	}

	var exclude *hubutils.ExclusionFilter
	if opts.exclude != "" {
		exclude, err = hubutils.LoadExclusionFilter(opts.exclude)
		if err != nil {
			return hubutils.FormatStats{}, err
		}
	}

	inp, err := hubutils.OpenInput(opts.infile)
	if err != nil {
		return hubutils.FormatStats{}, err
	}
	defer inp.Close()

	out, err := hubutils.CreateOutput(opts.outfile)
	if err != nil {
		return hubutils.FormatStats{}, err
	}

	stats, err := hubutils.FormatGFF3(inp, out, source, hubutils.FormatOptions{Prefix: opts.prefix, Exclude: exclude})
	if err != nil {
		out.Close()
		return stats, err
	}

	return stats, out.Close()
}

func main() {

	opts, err := parseArguments(os.Args[1:])
	if errors.Is(err, errHelp) {
		fmt.Printf("genhub-format-gff3 %s\n%s\n", hubutils.GenHubVersion, formatHelp)
		return
	}
	if err != nil {
		hubutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}

	stats, err := formatGFF3(opts)
	if err != nil {
		hubutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}

	if opts.stts {
		fmt.Fprintf(os.Stderr, "%s\n", stats.TypeSummary())
		if stats.Noise > 0 || stats.Pseudo > 0 || stats.Excluded > 0 {
			fmt.Fprintf(os.Stderr, "discarded %s, %s, %s\n",
				hubutils.CountPhrase(stats.Noise, "noise record"),
				hubutils.CountPhrase(stats.Pseudo, "pseudogenic CDS record"),
				hubutils.CountPhrase(stats.Excluded, "excluded line"))
		}
	}

	if opts.timr {
		hubutils.PrintDuration("record", stats.Records)
	}
}
