// Package ecsconfig loads ECS construction settings from a YAML document,
// for host programs that prefer file-based configuration over the
// functional-options constructor in the root package.
package ecsconfig

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yuminaa/archecs"
)

// File is the on-disk shape of an ECS configuration document.
//
//	debug_mode: true
//	profiling_mode: false
//	initial_entity_capacity: 4096
type File struct {
	DebugMode             bool `yaml:"debug_mode"`
	ProfilingMode         bool `yaml:"profiling_mode"`
	InitialEntityCapacity int  `yaml:"initial_entity_capacity"`
}

// LoadYAML decodes r into a File and returns the equivalent archecs.Option
// list, ready to pass to archecs.New.
func LoadYAML(r io.Reader) ([]archecs.Option, error) {
	var f File
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("ecsconfig: decode: %w", err)
	}
	return f.options(), nil
}

// LoadYAMLFile opens path and decodes it the same way LoadYAML does.
func LoadYAMLFile(path string) ([]archecs.Option, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ecsconfig: open %s: %w", path, err)
	}
	defer fh.Close()
	return LoadYAML(fh)
}

func (f File) options() []archecs.Option {
	opts := []archecs.Option{
		archecs.WithDebugMode(f.DebugMode),
		archecs.WithProfilingMode(f.ProfilingMode),
	}
	if f.InitialEntityCapacity > 0 {
		opts = append(opts, archecs.WithInitialEntityCapacity(f.InitialEntityCapacity))
	}
	return opts
}
