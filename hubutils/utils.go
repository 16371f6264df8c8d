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
// File Name:  utils.go
//
// ==========================================================================

package hubutils

import (
	"fmt"
	"github.com/fatih/color"
	"github.com/gedex/inflector"
	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"os"
	"runtime"
	"sync"
	"time"
)

// GenHubVersion is the current release number
const GenHubVersion = "0.4.1"

// PERFORMANCE PARAMETERS

// performance tuning variables
var (
	chanDepth  int
	nCPU       int
	numProcs   int
	numWorkers int
	genomeMem  uint64
)

// quiet suppresses progress messages, not warnings or errors
var quiet bool

// program execution timer
var (
	startTime time.Time
)

// diagnostic output is serialized so lines from concurrent genomes do not interleave
var stderrLock sync.Mutex

// colored banners for diagnostic messages
var (
	errorBanner = color.New(color.FgRed, color.Bold, color.ReverseVideo)
	warnBanner  = color.New(color.FgRed, color.Bold)
	noteBanner  = color.New(color.FgBlue, color.Bold)
)

// SetTunings sets performance parameters. Zero values select defaults. The default
// number of genome workers is the number of physical cores, reduced when total
// memory cannot hold that many genomes at the given per-genome budget (in gigabytes).
func SetTunings(nmProcs, nmWorkers, chnDepth, memPerGenome int) {

	// calculate number of simultaneous threads for multiplexed goroutines
	nCPU = runtime.NumCPU()
	if nCPU < 1 {
		nCPU = 1
	}

	if nmProcs < 1 || nmProcs > nCPU {
		nmProcs = nCPU
	}

	numProcs = nmProcs

	// allow simultaneous threads for multiplexed goroutines
	runtime.GOMAXPROCS(numProcs)

	if memPerGenome < 1 || memPerGenome > 256 {
		memPerGenome = 2
	}

	genomeMem = uint64(memPerGenome) * 1024 * 1024 * 1024

	if nmWorkers < 1 {
		// one genome per physical core
		nmWorkers = nCPU
		if cpuid.CPU.ThreadsPerCore > 1 {
			cores := nCPU / cpuid.CPU.ThreadsPerCore
			if cores > 0 {
				nmWorkers = cores
			}
		}

		// reality check against installed memory, which is 0 if it cannot be determined
		total := memory.TotalMemory()
		if total > 0 {
			fits := int(total / genomeMem)
			if fits < 1 {
				fits = 1
			}
			if nmWorkers > fits {
				nmWorkers = fits
			}
		}
	}

	if nmWorkers > 64 {
		nmWorkers = 64
	}

	numWorkers = nmWorkers

	if chnDepth < 1 || chnDepth > 128 {
		chnDepth = 16
	}

	chanDepth = chnDepth
}

// ChanDepth returns the communication channel depth
func ChanDepth() int {

	return chanDepth
}

// NumWorkers returns the number of genomes processed concurrently
func NumWorkers() int {

	return numWorkers
}

// SetQuiet turns progress messages off or on
func SetQuiet(q bool) {

	quiet = q
}

// DisplayError prints a highlighted error message to stderr
func DisplayError(format string, params ...interface{}) {

	str := fmt.Sprintf(format, params...)

	stderrLock.Lock()
	defer stderrLock.Unlock()

	fmt.Fprintf(color.Error, "\n%s %s\n", errorBanner.Sprint(" ERROR: "), str)
}

// DisplayWarning prints a warning message to stderr
func DisplayWarning(format string, params ...interface{}) {

	str := fmt.Sprintf(format, params...)

	stderrLock.Lock()
	defer stderrLock.Unlock()

	fmt.Fprintf(color.Error, "%s %s\n", warnBanner.Sprint("WARNING:"), str)
}

// DisplayNote prints an informational message to stderr
func DisplayNote(format string, params ...interface{}) {

	str := fmt.Sprintf(format, params...)

	stderrLock.Lock()
	defer stderrLock.Unlock()

	fmt.Fprintf(color.Error, "%s %s\n", noteBanner.Sprint("NOTE:"), str)
}

// Progress prints a status line tagged with the species being processed
func Progress(species, format string, params ...interface{}) {

	if quiet {
		return
	}

	str := fmt.Sprintf(format, params...)

	stderrLock.Lock()
	defer stderrLock.Unlock()

	fmt.Fprintf(os.Stderr, "[GenHub: %s] %s\n", species, str)
}

// CountPhrase formats a count with thousands separators and a noun that agrees with it
func CountPhrase(count int, noun string) string {

	if count != 1 {
		noun = inflector.Pluralize(noun)
	}

	p := message.NewPrinter(language.English)

	return p.Sprintf("%d %s", count, noun)
}

// PrintDuration prints processing rate and program duration
func PrintDuration(name string, recordCount int) {

	stopTime := time.Now()
	duration := stopTime.Sub(startTime)
	seconds := float64(duration.Nanoseconds()) / 1e9

	prec := 3
	if seconds >= 100 {
		prec = 1
	} else if seconds >= 10 {
		prec = 2
	}

	if recordCount > 0 {
		fmt.Fprintf(os.Stderr, "\nProcessed %s in %.*f seconds", CountPhrase(recordCount, name), prec, seconds)
	} else {
		fmt.Fprintf(os.Stderr, "\nProcessing completed in %.*f seconds", prec, seconds)
	}

	if seconds >= 0.001 && recordCount > 0 {
		rate := int(float64(recordCount) / seconds)
		p := message.NewPrinter(language.English)
		fmt.Fprintf(os.Stderr, " (%s %s/second)", p.Sprintf("%d", rate), inflector.Pluralize(name))
	}

	fmt.Fprintf(os.Stderr, "\n\n")
}

// PrintStats prints performance tuning parameters
func PrintStats() {

	fmt.Fprintf(os.Stderr, "Thrd %d\n", nCPU)
	if cpuid.CPU.ThreadsPerCore > 0 {
		fmt.Fprintf(os.Stderr, "Core %d\n", nCPU/cpuid.CPU.ThreadsPerCore)
	}
	if cpuid.CPU.LogicalCores > 0 {
		fmt.Fprintf(os.Stderr, "Sock %d\n", nCPU/cpuid.CPU.LogicalCores)
	}
	fmt.Fprintf(os.Stderr, "Mmry %d\n", memory.TotalMemory()/(1024*1024*1024))

	fmt.Fprintf(os.Stderr, "Proc %d\n", numProcs)
	fmt.Fprintf(os.Stderr, "Work %d\n", numWorkers)
	fmt.Fprintf(os.Stderr, "Chan %d\n", chanDepth)
	fmt.Fprintf(os.Stderr, "Gmem %d\n", genomeMem/(1024*1024*1024))

	fmt.Fprintf(os.Stderr, "\n")
}

func init() {

	startTime = time.Now()

	// defaults until a program calls SetTunings
	SetTunings(0, 0, 0, 0)
}
