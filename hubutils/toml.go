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
// File Name:  toml.go
//
// ==========================================================================

package hubutils

import (
	"bytes"
	"fmt"
	"github.com/komkom/toml"
	"io"
	"strings"
)

// ParseTOMLConfig reads TOML genome configurations, one table per genome label
func ParseTOMLConfig(inp io.Reader) (map[string]*GenomeConfig, error) {

	var buffer strings.Builder

	scanr := newLineScanner(inp)
	for scanr.Scan() {
		buffer.WriteString(scanr.Text())
		buffer.WriteString("\n")
	}
	if err := scanr.Err(); err != nil {
		return nil, err
	}

	txt := buffer.String()
	if strings.TrimSpace(txt) == "" {
		return map[string]*GenomeConfig{}, nil
	}

	// the TOML reader yields the document as JSON
	rdr := toml.New(bytes.NewBufferString(txt))
	if rdr == nil {
		return nil, fmt.Errorf("unable to create TOML reader")
	}

	configs, err := decodeGenomeConfigs(rdr)
	if err != nil {
		return nil, fmt.Errorf("TOML error '%v'", err)
	}

	return configs, nil
}
