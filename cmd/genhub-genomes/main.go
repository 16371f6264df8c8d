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
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"io"
	"os"
	"strings"
)

const genomesHelp = `
List configured genomes and batches

Usage: genhub-genomes [-cfgdir dir] [-cfg file ...] [-batch name]

  -cfg       genome configuration file (.yml, .yaml, or .toml)
  -cfgdir    directory of genome configuration and batch files
  -batch     list only the members of the named batch
  -batches   list batch names instead of genomes
`

type listArgs struct {
	cfgFiles []string
	cfgDir   string
	batch    string
	batches  bool
}

var errHelp = errors.New("help requested")

func parseArguments(args []string) (listArgs, error) {

	var opts listArgs

	getValue := func(name string) (string, error) {
		if len(args) < 2 {
			return "", fmt.Errorf("%s argument is missing", name)
		}
		val := args[1]
		args = args[1:]
		return val, nil
	}

	var err error
	var str string

	for len(args) > 0 {

		switch args[0] {
		case "-cfg", "--cfg":
			str, err = getValue("-cfg")
			opts.cfgFiles = append(opts.cfgFiles, str)
		case "-cfgdir", "--cfgdir":
			opts.cfgDir, err = getValue("-cfgdir")
		case "-batch", "--batch":
			opts.batch, err = getValue("-batch")
		case "-batches", "--batches":
			opts.batches = true
		case "-h", "-help", "--help":
			return opts, errHelp
		default:
			return opts, fmt.Errorf("unrecognized argument '%s'", args[0])
		}

		if err != nil {
			return opts, err
		}

		args = args[1:]
	}

	if len(opts.cfgFiles) == 0 && opts.cfgDir == "" {
		return opts, fmt.Errorf("no genome configuration given, use -cfg or -cfgdir")
	}

	return opts, nil
}

// loadRegistry reads the configuration directory, then the individual files
func loadRegistry(opts listArgs) (*hubutils.Registry, error) {

	reg := hubutils.NewRegistry()

	if opts.cfgDir != "" {
		if err := reg.Update(opts.cfgDir, false); err != nil {
			return nil, err
		}
	}
	for _, file := range opts.cfgFiles {
		configs, err := hubutils.LoadConfigFile(file)
		if err != nil {
			return nil, err
		}
		reg.Add(configs)
	}

	return reg, nil
}

// listGenomes writes one tab-delimited line per genome: label, source, species,
// and common name in title case
func listGenomes(out io.Writer, reg *hubutils.Registry, opts listArgs) error {

	if opts.batches {
		for _, name := range reg.ListBatches() {
			fmt.Fprintf(out, "%s\t%s\n", name, strings.Join(reg.BatchLabels(name), ","))
		}
		return nil
	}

	configs := reg.ListGenomes()
	if opts.batch != "" {
		var err error
		configs, err = reg.Batch(opts.batch)
		if err != nil {
			return err
		}
	}

	title := cases.Title(language.English)

	for _, gc := range configs {
		common := gc.Common
		if common == "" {
			common = "-"
		} else {
			common = title.String(common)
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", gc.Label, gc.Source, gc.Species, common)
	}

	return nil
}

func main() {

	opts, err := parseArguments(os.Args[1:])
	if errors.Is(err, errHelp) {
		fmt.Printf("genhub-genomes %s\n%s\n", hubutils.GenHubVersion, genomesHelp)
		return
	}
	if err != nil {
		hubutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}

	reg, err := loadRegistry(opts)
	if err != nil {
		hubutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}

	if err := listGenomes(os.Stdout, reg, opts); err != nil {
		hubutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}
}
