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
// File Name:  farm.go
//
// ==========================================================================

package hubutils

import (
	"context"
	"fmt"
	"golang.org/x/sync/errgroup"
	"time"
)

// GenomeTask processes one genome
type GenomeTask func(ctx context.Context, db *GenomeDB) error

// GenomeResult records the outcome of one genome
type GenomeResult struct {
	Label    string
	Species  string
	Err      error
	Duration time.Duration
}

// RunGenomes applies a task to every genome with at most the given number running
// at once, 0 meaning NumWorkers. A failing genome never stops the others. Results
// are returned in input order.
func RunGenomes(ctx context.Context, dbs []*GenomeDB, workers int, task GenomeTask) []GenomeResult {

	if workers < 1 {
		workers = NumWorkers()
	}

	results := make([]GenomeResult, len(dbs))

	var grp errgroup.Group
	grp.SetLimit(workers)

	for i, db := range dbs {
		results[i] = GenomeResult{Label: db.Label(), Species: db.Config.Species}

		grp.Go(func() error {

			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			begin := time.Now()

			err := runIsolated(ctx, db, task)

			results[i].Err = err
			results[i].Duration = time.Since(begin)

			// failures are kept in the result, not returned to the group
			return nil
		})
	}

	grp.Wait()

	return results
}

// runIsolated converts a panic in one genome's task into that genome's error
func runIsolated(ctx context.Context, db *GenomeDB, task GenomeTask) (err error) {

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", db.Label(), r)
		}
	}()

	return task(ctx, db)
}

// Failed returns the results that carry an error
func Failed(results []GenomeResult) []GenomeResult {

	var failed []GenomeResult

	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}

	return failed
}
