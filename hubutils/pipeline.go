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
// File Name:  pipeline.go
//
// ==========================================================================

package hubutils

import (
	"io"
	"sync"
)

// Stage transforms one line-oriented stream into another
type Stage func(inp io.Reader, out io.Writer) error

// StageChain is the read end of a series of stages, each running in its own
// goroutine and connected by pipes. A stage error is returned by Read on the
// downstream end.
type StageChain struct {
	io.Reader
	pipes []*io.PipeReader
	wg    sync.WaitGroup

	mu     sync.Mutex
	err    error
	closed bool
}

// Chain connects stages in order. Nil stages are skipped.
func Chain(inp io.Reader, stages ...Stage) *StageChain {

	sc := &StageChain{}

	for _, stg := range stages {
		if stg == nil {
			continue
		}

		pr, pw := io.Pipe()

		// runStage closes the write end with the stage result so the reader sees EOF or the error
		runStage := func(stg Stage, inp io.Reader, pw *io.PipeWriter) {
			err := stg(inp, pw)
			if err != nil {
				sc.record(err)
			}
			pw.CloseWithError(err)
		}

		sc.wg.Add(1)
		go func(stg Stage, inp io.Reader, pw *io.PipeWriter) {
			defer sc.wg.Done()
			runStage(stg, inp, pw)
		}(stg, inp, pw)

		sc.pipes = append(sc.pipes, pr)
		inp = pr
	}

	sc.Reader = inp

	return sc
}

func (sc *StageChain) record(err error) {

	sc.mu.Lock()
	defer sc.mu.Unlock()

	// errors caused by Close are not stage failures
	if sc.err == nil && !sc.closed {
		sc.err = err
	}
}

// Err returns the first error reported by any stage, once the chain has been read to the end
func (sc *StageChain) Err() error {

	sc.mu.Lock()
	defer sc.mu.Unlock()

	return sc.err
}

// Close releases every stage, including any still blocked on a write, and
// waits for all of them to return. Values set by stages may be read afterward.
func (sc *StageChain) Close() error {

	sc.mu.Lock()
	sc.closed = true
	sc.mu.Unlock()

	for _, pr := range sc.pipes {
		pr.CloseWithError(io.ErrClosedPipe)
	}

	sc.wg.Wait()

	return nil
}
