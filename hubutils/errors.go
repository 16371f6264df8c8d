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
// File Name:  errors.go
//
// ==========================================================================

package hubutils

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMultipleParents marks a Parent attribute naming more than one feature
var ErrMultipleParents = errors.New("multiple parents are not supported")

// IntegrityError reports a record that violates the ID/Parent hierarchy or lacks
// an attribute its provider guarantees
type IntegrityError struct {
	Source string
	Type   string
	ID     string
	Parent string
	Rule   string
	Line   string
	Err    error
}

func (e *IntegrityError) Error() string {

	var buffer strings.Builder

	buffer.WriteString("integrity violation")
	if e.Source != "" {
		buffer.WriteString(" [")
		buffer.WriteString(e.Source)
		buffer.WriteString("]")
	}
	buffer.WriteString(": ")
	buffer.WriteString(e.Rule)
	buffer.WriteString(" failed on ")
	if e.Type != "" {
		buffer.WriteString(e.Type)
	} else {
		buffer.WriteString("record")
	}
	fmt.Fprintf(&buffer, " (ID=%q, Parent=%q)", e.ID, e.Parent)
	if e.Err != nil {
		buffer.WriteString(": ")
		buffer.WriteString(e.Err.Error())
	}

	return buffer.String()
}

func (e *IntegrityError) Unwrap() error {

	return e.Err
}

// newIntegrityError fills the identifying fields from the offending record
func newIntegrityError(source string, rec *Record, rule string, err error) *IntegrityError {

	ie := &IntegrityError{Source: source, Rule: rule, Err: err}
	if rec != nil {
		ie.Type = rec.Type()
		ie.ID = rec.Value("ID")
		ie.Parent = rec.Value("Parent")
		ie.Line = rec.String()
	}

	return ie
}

// ToolError reports an external program that exited with a nonzero status
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   []string
	Err      error
}

func (e *ToolError) Error() string {

	msg := fmt.Sprintf("%s %s failed", e.Tool, strings.Join(e.Args, " "))
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" with exit status %d", e.ExitCode)
	}
	if len(e.Stderr) > 0 {
		msg += ": " + strings.Join(e.Stderr, "; ")
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *ToolError) Unwrap() error {

	return e.Err
}
