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
// File Name:  yaml.go
//
// ==========================================================================

package hubutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/goccy/go-yaml"
	"io"
	"sort"
	"strings"
)

// StringList accepts either a single string or a list of strings
type StringList []string

// UnmarshalJSON implements json.Unmarshaler
func (sl *StringList) UnmarshalJSON(data []byte) error {

	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*sl = nil
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*sl = items
		return nil
	}

	var item string
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	*sl = StringList{item}

	return nil
}

// GenomeConfig describes one genome and where its raw data files live
type GenomeConfig struct {
	Label       string     `json:"-"`
	Source      string     `json:"source"`
	Species     string     `json:"species"`
	Common      string     `json:"common"`
	Annotation  string     `json:"annotation"`
	Scaffolds   string     `json:"scaffolds"`
	Proteins    string     `json:"proteins"`
	AnnotFilter StringList `json:"annotfilter"`
	Prefix      string     `json:"prefix"`
	KeepMRNAs   bool       `json:"keep_mrnas"`
	Accession   string     `json:"accession"`
	Accessions  []string   `json:"accessions"`
	Build       string     `json:"build"`
	Branch      string     `json:"branch"`
	Version     string     `json:"version"`
}

// Validate checks the fields every build task needs
func (gc *GenomeConfig) Validate() error {

	if gc.Label == "" {
		return fmt.Errorf("genome config has no label")
	}
	if gc.Source == "" {
		return fmt.Errorf("genome config %s has no source", gc.Label)
	}
	if _, err := NewSourceAdapter(gc.Source, gc.Label); err != nil {
		return fmt.Errorf("genome config %s: %w", gc.Label, err)
	}
	if gc.Species == "" {
		return fmt.Errorf("genome config %s has no species", gc.Label)
	}
	if gc.Annotation == "" {
		return fmt.Errorf("genome config %s has no annotation file", gc.Label)
	}

	return nil
}

// decodeGenomeConfigs reads a JSON object of label to config
func decodeGenomeConfigs(jsn io.Reader) (map[string]*GenomeConfig, error) {

	var raw map[string]*GenomeConfig

	dec := json.NewDecoder(jsn)
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	configs := make(map[string]*GenomeConfig, len(raw))
	for label, gc := range raw {
		if gc == nil {
			return nil, fmt.Errorf("genome config %s is empty", label)
		}
		gc.Label = label
		configs[label] = gc
	}

	return configs, nil
}

// ParseGenomeConfig reads YAML genome configurations keyed by genome label
func ParseGenomeConfig(inp io.Reader) (map[string]*GenomeConfig, error) {

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

	jsn, err := yaml.YAMLToJSON([]byte(txt))
	if err != nil {
		return nil, fmt.Errorf("YAMLToJSON error '%v'", err)
	}

	// a document holding only comments
	if trimmed := bytes.TrimSpace(jsn); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]*GenomeConfig{}, nil
	}

	return decodeGenomeConfigs(bytes.NewReader(jsn))
}

// SortedLabels returns the labels of a config map in order
func SortedLabels(configs map[string]*GenomeConfig) []string {

	labels := make([]string, 0, len(configs))
	for label := range configs {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	return labels
}
