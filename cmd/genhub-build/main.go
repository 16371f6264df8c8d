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
	"context"
	"errors"
	"fmt"
	"genhub/hubutils"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"
)

const buildHelp = `
Build normalized genome databases from provider annotations

Usage: genhub-build [options] [format|prepare ...]

Genome Selection

  -cfg       genome configuration file (.yml, .yaml, or .toml)
  -cfgdir    directory of genome configuration and batch files
  -genomes   comma-separated list of genome labels
  -batch     name of a batch of genomes

Locations

  -w, -workdir   working directory holding one subdirectory per genome
                   (default ./species)

External Programs

  -gt        GenomeTools binary (default gt)
  -lpdriver  iLocus driver (default lpdriver.py)
  -tidy      annotation cleanup filter (default tidygff3)
  -delta     iLocus flank length (default 500)
  -introns   add intron features during sort/tidy

  Passing an empty name skips the corresponding step.

Performance

  -workers   number of genomes processed at once
  -mem       memory budget per genome in gigabytes (default 2)

Miscellaneous

  -quiet     suppress progress messages
  -stats     print performance tuning parameters
  -timer     print processing time when done

With no task names, all tasks are run in order.
`

type buildArgs struct {
	cfgFiles []string
	cfgDir   string
	genomes  []string
	batch    string
	workdir  string
	tools    hubutils.ToolSet
	workers  int
	mem      int
	tasks    []string
	quiet    bool
	stts     bool
	timr     bool
}

var errHelp = errors.New("help requested")

// parseArguments reads flags followed by optional task names
func parseArguments(args []string) (buildArgs, error) {

	opts := buildArgs{workdir: "./species", tools: hubutils.DefaultToolSet()}

	// getValue returns the argument following a flag
	getValue := func(name string) (string, error) {
		if len(args) < 2 {
			return "", fmt.Errorf("%s argument is missing", name)
		}
		val := args[1]
		args = args[1:]
		return val, nil
	}

	// getNumber returns the non-negative integer following a flag
	getNumber := func(name string) (int, error) {
		str, err := getValue(name)
		if err != nil {
			return 0, err
		}
		num, err := strconv.Atoi(str)
		if err != nil || num < 0 {
			return 0, fmt.Errorf("%s (%s) is not a non-negative integer", name, str)
		}
		return num, nil
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
		case "-genomes", "--genomes":
			str, err = getValue("-genomes")
			for _, label := range strings.Split(str, ",") {
				label = strings.TrimSpace(label)
				if label != "" {
					opts.genomes = append(opts.genomes, label)
				}
			}
		case "-batch", "--batch":
			opts.batch, err = getValue("-batch")
		case "-w", "-workdir", "--workdir":
			opts.workdir, err = getValue("-workdir")
		case "-gt", "--gt":
			opts.tools.GT, err = getValue("-gt")
		case "-lpdriver", "--lpdriver":
			opts.tools.LPDriver, err = getValue("-lpdriver")
		case "-tidy", "--tidy":
			opts.tools.Tidy, err = getValue("-tidy")
		case "-delta", "--delta":
			opts.tools.Delta, err = getNumber("-delta")
		case "-introns", "--introns":
			opts.tools.Introns = true
		case "-workers", "--workers":
			opts.workers, err = getNumber("-workers")
		case "-mem", "--mem":
			opts.mem, err = getNumber("-mem")
		case "-quiet", "-q":
			opts.quiet = true
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
			if strings.HasPrefix(args[0], "-") {
				return opts, fmt.Errorf("unrecognized option '%s'", args[0])
			}
			if !isTask(args[0]) {
				return opts, fmt.Errorf("unknown task '%s', expected one of %s", args[0], strings.Join(hubutils.BuildTasks, ", "))
			}
			opts.tasks = append(opts.tasks, args[0])
		}

		if err != nil {
			return opts, err
		}

		// skip past argument
		args = args[1:]
	}

	if len(opts.tasks) == 0 {
		opts.tasks = hubutils.BuildTasks
	}

	if len(opts.cfgFiles) == 0 && opts.cfgDir == "" {
		return opts, fmt.Errorf("no genome configuration given, use -cfg or -cfgdir")
	}
	if len(opts.genomes) == 0 && opts.batch == "" {
		return opts, fmt.Errorf("no genomes selected, use -genomes or -batch")
	}

	return opts, nil
}

func isTask(name string) bool {

	for _, task := range hubutils.BuildTasks {
		if task == name {
			return true
		}
	}

	return false
}

// selectGenomes loads the configurations and returns the requested genomes,
// batch members first
func selectGenomes(opts buildArgs) ([]*hubutils.GenomeDB, error) {

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

	var configs []*hubutils.GenomeConfig

	if opts.batch != "" {
		batch, err := reg.Batch(opts.batch)
		if err != nil {
			return nil, err
		}
		configs = append(configs, batch...)
	}

	named, err := reg.Genomes(opts.genomes)
	if err != nil {
		return nil, err
	}
	configs = append(configs, named...)

	seen := make(map[string]bool)
	var dbs []*hubutils.GenomeDB

	for _, gc := range configs {
		if seen[gc.Label] {
			continue
		}
		seen[gc.Label] = true

		db, err := hubutils.NewGenomeDB(gc, opts.workdir)
		if err != nil {
			return nil, err
		}
		dbs = append(dbs, db)
	}

	return dbs, nil
}

// buildTask runs the requested steps in order on one genome
func buildTask(bld *hubutils.Builder, tasks []string) hubutils.GenomeTask {

	return func(ctx context.Context, db *hubutils.GenomeDB) error {

		for _, task := range tasks {
			var err error
			switch task {
			case "format":
				_, err = bld.Format(ctx, db)
			case "prepare":
				_, err = bld.Prepare(ctx, db)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", task, err)
			}
		}

		return nil
	}
}

func main() {

	opts, err := parseArguments(os.Args[1:])
	if errors.Is(err, errHelp) {
		fmt.Printf("genhub-build %s\n%s\n", hubutils.GenHubVersion, buildHelp)
		return
	}
	if err != nil {
		hubutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}

	hubutils.SetTunings(0, opts.workers, 0, opts.mem)
	hubutils.SetQuiet(opts.quiet)

	if opts.stts {
		hubutils.PrintStats()
	}

	dbs, err := selectGenomes(opts)
	if err != nil {
		hubutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bld := &hubutils.Builder{Tools: opts.tools}

	results := hubutils.RunGenomes(ctx, dbs, hubutils.NumWorkers(), buildTask(bld, opts.tasks))

	for _, res := range results {
		if res.Err == nil {
			hubutils.Progress(res.Species, "finished in %s", res.Duration.Round(time.Millisecond))
		}
	}

	failed := hubutils.Failed(results)
	for _, res := range failed {
		hubutils.DisplayError("%s (%s): %s", res.Label, res.Species, res.Err.Error())
	}

	if len(failed) > 0 {
		hubutils.DisplayNote("%s of %s failed", hubutils.CountPhrase(len(failed), "genome"), strconv.Itoa(len(results)))
	}

	if opts.timr {
		hubutils.PrintDuration("genome", len(results))
	}

	if len(failed) > 0 {
		stop()
		os.Exit(1)
	}
}
