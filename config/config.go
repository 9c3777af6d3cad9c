// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package config loads tag binding files.
//
// A binding file declares extra tags for the parser, or overrides standard ones.
// In TOML:
//
//	defaults = true
//
//	[[tag]]
//	name = "title"
//	action = "AddChildAndBranch"
//	kind = "title"
//
// In YAML:
//
//	defaults: true
//	tags:
//	  - name: title
//	    action: AddChildAndBranch
//	    kind: title
//
// A kind that names a standard node kind (Center, Item, ...) produces that kind.
// Any other kind produces a Custom node carrying the name.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mdhender/louvre"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a binding file.
type Format int

const (
	FormatAuto Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// File is a decoded binding file.
type File struct {
	// Defaults controls whether the standard vocabulary stays bound.
	// A missing value means true.
	Defaults *bool       `toml:"defaults" yaml:"defaults"`
	Tags     []TagConfig `toml:"tag" yaml:"tags"`
}

// TagConfig declares one tag binding.
type TagConfig struct {
	Name   string `toml:"name" yaml:"name"`
	Action string `toml:"action" yaml:"action"`
	Kind   string `toml:"kind" yaml:"kind"`
}

// Load reads and decodes the binding file at path.
// The format is chosen from the file extension; anything other than
// .yaml or .yml is read as TOML.
func Load(fs afero.Fs, path string) (*File, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	f, err := Decode(data, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return f, nil
}

// DetectFormat returns the format implied by the extension of path.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Decode decodes a binding file. FormatAuto is treated as TOML.
// Unknown keys are rejected in both formats.
func Decode(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatAuto, FormatTOML:
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f)
		if err != nil {
			return nil, fmt.Errorf("toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) != 0 {
			return nil, fmt.Errorf("toml: unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
	return &f, nil
}

// UseDefaults reports whether the standard vocabulary stays bound.
func (f *File) UseDefaults() bool {
	return f.Defaults == nil || *f.Defaults
}

// Bindings returns the bindings declared by the file.
// Tag names must be valid in source text and may appear only once.
// An empty kind is allowed for End and Ignore and yields a Null node.
func (f *File) Bindings() (louvre.Bindings, error) {
	bindings := louvre.Bindings{}
	for i, tc := range f.Tags {
		if !louvre.ValidTagName(tc.Name) {
			return nil, fmt.Errorf("tag %d: invalid name %q", i+1, tc.Name)
		}
		if _, ok := bindings[tc.Name]; ok {
			return nil, fmt.Errorf("tag %d: duplicate name %q", i+1, tc.Name)
		}
		action, ok := louvre.ParseAction(tc.Action)
		if !ok {
			return nil, fmt.Errorf("tag %q: unknown action %q", tc.Name, tc.Action)
		}
		switch kind, ok := louvre.ParseKind(tc.Kind); {
		case tc.Kind == "":
			if action != louvre.End && action != louvre.Ignore {
				return nil, fmt.Errorf("tag %q: %s requires a kind", tc.Name, action)
			}
			bindings[tc.Name] = louvre.Bind(action, louvre.Null)
		case ok && kind != louvre.Custom:
			bindings[tc.Name] = louvre.Bind(action, kind)
		default:
			bindings[tc.Name] = louvre.BindCustom(action, tc.Kind)
		}
	}
	return bindings, nil
}

// Options returns the parser options that install the file's bindings.
func (f *File) Options() ([]louvre.Option, error) {
	bindings, err := f.Bindings()
	if err != nil {
		return nil, err
	}
	var opts []louvre.Option
	if !f.UseDefaults() {
		opts = append(opts, louvre.WithoutDefaults())
	}
	return append(opts, louvre.WithBindings(bindings)), nil
}
