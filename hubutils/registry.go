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
// File Name:  registry.go
//
// ==========================================================================

package hubutils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Registry holds genome configurations and named batches of genome labels
type Registry struct {
	genomes map[string]*GenomeConfig
	batches map[string][]string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {

	return &Registry{
		genomes: make(map[string]*GenomeConfig),
		batches: make(map[string][]string),
	}
}

// LoadConfigFile parses one YAML or TOML file, chosen by suffix
func LoadConfigFile(fileName string) (map[string]*GenomeConfig, error) {

	fl, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer fl.Close()

	var configs map[string]*GenomeConfig

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".toml":
		configs, err = ParseTOMLConfig(fl)
	default:
		configs, err = ParseGenomeConfig(fl)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}

	return configs, nil
}

// Update loads every genome config (.yml, .yaml, .toml) and batch file (.txt)
// in a directory. A batch is named for its file and lists one label per line.
// With clear set, previous entries are discarded first.
func (reg *Registry) Update(dir string, clear bool) error {

	if clear {
		reg.genomes = make(map[string]*GenomeConfig)
		reg.batches = make(map[string][]string)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("config directory %q does not exist", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		path := filepath.Join(dir, ent.Name())
		ext := strings.ToLower(filepath.Ext(ent.Name()))

		switch ext {
		case ".yml", ".yaml", ".toml":
			configs, err := LoadConfigFile(path)
			if err != nil {
				return err
			}
			reg.Add(configs)
		case ".txt":
			fl, err := os.Open(path)
			if err != nil {
				return err
			}
			labels, err := ReadList(fl)
			fl.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reg.batches[strings.TrimSuffix(ent.Name(), filepath.Ext(ent.Name()))] = labels
		}
	}

	return nil
}

// Add registers configurations, replacing any with the same label
func (reg *Registry) Add(configs map[string]*GenomeConfig) {

	for label, gc := range configs {
		reg.genomes[label] = gc
	}
}

// Genome returns one configuration, or nil if the label is unknown
func (reg *Registry) Genome(label string) *GenomeConfig {

	return reg.genomes[label]
}

// Genomes returns the configurations for a list of labels
func (reg *Registry) Genomes(labels []string) ([]*GenomeConfig, error) {

	var configs []*GenomeConfig

	for _, label := range labels {
		gc, ok := reg.genomes[label]
		if !ok {
			return nil, fmt.Errorf("unknown genome %q", label)
		}
		configs = append(configs, gc)
	}

	return configs, nil
}

// Batch returns the configurations of a named batch
func (reg *Registry) Batch(name string) ([]*GenomeConfig, error) {

	labels, ok := reg.batches[name]
	if !ok {
		return nil, fmt.Errorf("unknown batch %q", name)
	}

	configs, err := reg.Genomes(labels)
	if err != nil {
		return nil, fmt.Errorf("batch %s: %w", name, err)
	}

	return configs, nil
}

// ListGenomes returns every configuration sorted by label
func (reg *Registry) ListGenomes() []*GenomeConfig {

	configs := make([]*GenomeConfig, 0, len(reg.genomes))
	for _, label := range SortedLabels(reg.genomes) {
		configs = append(configs, reg.genomes[label])
	}

	return configs
}

// ListBatches returns the batch names in order
func (reg *Registry) ListBatches() []string {

	names := make([]string, 0, len(reg.batches))
	for name := range reg.batches {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// BatchLabels returns the genome labels of a batch
func (reg *Registry) BatchLabels(name string) []string {

	return reg.batches[name]
}
