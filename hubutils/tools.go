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
// File Name:  tools.go
//
// ==========================================================================

package hubutils

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ToolSet names the external programs used by the build. An empty name skips
// that step.
type ToolSet struct {
	// GenomeTools binary, run as "gt gff3 -sort -tidy"
	GT string
	// iLocus computation driver
	LPDriver string
	// optional GFF3 cleanup filter applied before normalization
	Tidy string
	// iLocus flank length passed to the driver
	Delta int
	// Introns adds intron features during sort/tidy
	Introns bool
}

// DefaultToolSet returns the programs normally found on PATH
func DefaultToolSet() ToolSet {

	return ToolSet{GT: "gt", LPDriver: "lpdriver.py", Tidy: "tidygff3", Delta: 500}
}

// diagnostics the external tools print for well-formed input
var benignMessages = []string{
	"has not been previously introduced",
	`does not begin with "##gff-version"`,
	`illegal uppercase attribute "Shift"`,
	"more than one pseudogene attribute",
	"has the wrong phase",
	"no valid mRNAs",
}

// FilterToolMessages returns the non-blank stderr lines not on the benign list
func FilterToolMessages(stderr string) []string {

	var kept []string

	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		benign := false
		for _, msg := range benignMessages {
			if strings.Contains(line, msg) {
				benign = true
				break
			}
		}
		if !benign {
			kept = append(kept, line)
		}
	}

	return kept
}

// RunTool runs an external program to completion. A nonzero exit returns a
// ToolError carrying the filtered stderr; on success the filtered stderr is
// shown as warnings tagged with the genome label.
func RunTool(ctx context.Context, label, tool string, args []string, stdin io.Reader, stdout io.Writer) error {

	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout

	var errbuf bytes.Buffer
	cmd.Stderr = &errbuf

	err := cmd.Run()
	msgs := FilterToolMessages(errbuf.String())

	if err != nil {
		te := &ToolError{Tool: tool, Args: args, Stderr: msgs, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			te.ExitCode = exitErr.ExitCode()
		}
		return te
	}

	for _, msg := range msgs {
		DisplayWarning("[%s] %s: %s", label, tool, msg)
	}

	return nil
}

// SortTidy runs "gt gff3 -sort -tidy" on a stream and writes the named file. With
// no gt configured the stream is written as is. With Introns set, gt inserts
// intron features and they receive their parent's accession. On failure the
// partial file is removed.
func (ts ToolSet) SortTidy(ctx context.Context, label string, inp io.Reader, outPath string) error {

	var sorter, introns Stage

	if ts.GT != "" {
		args := []string{"gff3", "-sort", "-tidy", "-force"}
		if ts.Introns {
			args = append(args, "-addintrons")
		}
		sorter = func(inp io.Reader, out io.Writer) error {
			return RunTool(ctx, label, ts.GT, args, inp, out)
		}
	}
	if ts.Introns {
		introns = AssignIntronAccessions
	}

	chain := Chain(inp, sorter, introns)
	defer chain.Close()

	out, err := CreateOutput(outPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, chain); err != nil {
		out.Close()
		removeOutput(outPath)
		return err
	}

	if err := out.Close(); err != nil {
		removeOutput(outPath)
		return err
	}

	return nil
}

// removeOutput deletes a partly written output file, leaving standard output alone
func removeOutput(fileName string) {

	if fileName == "" || fileName == "-" {
		return
	}

	os.Remove(fileName)
}

// TidyStage returns the optional cleanup filter as a pipeline stage
func (ts ToolSet) TidyStage(ctx context.Context, label string) Stage {

	if ts.Tidy == "" {
		return nil
	}

	return func(inp io.Reader, out io.Writer) error {
		return RunTool(ctx, label, ts.Tidy, nil, inp, out)
	}
}

// ComputeILoci runs the iLocus driver on a genome's normalized annotation
func (ts ToolSet) ComputeILoci(ctx context.Context, db *GenomeDB) error {

	if ts.LPDriver == "" {
		return nil
	}

	delta := ts.Delta
	if delta < 1 {
		delta = 500
	}

	args := []string{
		"--namefmt=" + db.Label() + "ILC-%05lu",
		"--delta=" + strconv.Itoa(delta),
		"--ilenfile=" + db.ILocusLengthPath(),
		"--out=" + db.ILocusPath(),
		db.GFF3Path(),
	}

	return RunTool(ctx, db.Label(), ts.LPDriver, args, nil, io.Discard)
}
