package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sadopc/pathlen/internal/pathlength"
	"github.com/sadopc/pathlen/internal/search"
)

// ErrInvalidConfigPath is returned when the config file path is empty.
var ErrInvalidConfigPath = errors.New("invalid config file path")

// File holds defaults read from a TOML file. Unset keys leave the
// corresponding option alone.
//
//	root = "/srv/share"
//	pattern = "*.txt"
//	recursive = true
//	types = "files"
//	root_replacement = "X:"
//	url_encode = false
//	strategy = "safe"
//	min_length = 200
//	max_length = -1
//	unit = "utf16"
//
//	[output]
//	format = "csv"
//	type = "paths"
//	sort = "-length"
//	no_length = false
//
//	[ssh]
//	port = 22
//	batch = true
//	timeout = "10s"
type File struct {
	Root            *string `toml:"root"`
	Pattern         *string `toml:"pattern"`
	Recursive       *bool   `toml:"recursive"`
	Types           *string `toml:"types"`
	RootReplacement *string `toml:"root_replacement"`
	URLEncode       *bool   `toml:"url_encode"`
	Strategy        *string `toml:"strategy"`
	MinLength       *int    `toml:"min_length"`
	MaxLength       *int    `toml:"max_length"`
	Unit            *string `toml:"unit"`

	Output OutputSection `toml:"output"`
	SSH    SSHSection    `toml:"ssh"`
}

// OutputSection configures rendering.
type OutputSection struct {
	Format   *string `toml:"format"`
	Type     *string `toml:"type"`
	Sort     *string `toml:"sort"`
	NoLength *bool   `toml:"no_length"`
}

// SSHSection configures remote searches.
type SSHSection struct {
	Port    *int    `toml:"port"`
	Batch   *bool   `toml:"batch"`
	Timeout *string `toml:"timeout"`
}

// Load reads and decodes a TOML config file. Unknown keys are errors.
func Load(path string) (*File, error) {
	if path == "" {
		return nil, ErrInvalidConfigPath
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(content)
}

// Parse decodes TOML content.
func Parse(content []byte) (*File, error) {
	var f File
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &f, nil
}

// Apply copies every set search key onto opts.
func (f *File) Apply(opts *pathlength.Options) error {
	if f == nil {
		return nil
	}
	if f.Root != nil {
		opts.RootDirectory = *f.Root
	}
	if f.Pattern != nil {
		opts.SearchPattern = *f.Pattern
	}
	if f.Recursive != nil {
		opts.Recursive = *f.Recursive
	}
	if f.Types != nil {
		t, err := search.ParseFileSystemTypes(*f.Types)
		if err != nil {
			return fmt.Errorf("types: %w", err)
		}
		opts.TypesToGet = t
	}
	if f.RootReplacement != nil {
		opts.RootDirectoryReplacement = search.Replace(*f.RootReplacement)
	}
	if f.URLEncode != nil {
		opts.URLEncodePaths = *f.URLEncode
	}
	if f.Strategy != nil {
		s, err := search.ParseStrategy(*f.Strategy)
		if err != nil {
			return fmt.Errorf("strategy: %w", err)
		}
		opts.Strategy = s
	}
	if f.MinLength != nil {
		opts.MinimumPathLength = *f.MinLength
	}
	if f.MaxLength != nil {
		opts.MaximumPathLength = *f.MaxLength
	}
	if f.Unit != nil {
		u, err := pathlength.ParseLengthUnit(*f.Unit)
		if err != nil {
			return fmt.Errorf("unit: %w", err)
		}
		opts.Unit = u
	}
	return nil
}

// SSHTimeout parses the [ssh] timeout, returning def when unset.
func (f *File) SSHTimeout(def time.Duration) (time.Duration, error) {
	if f == nil || f.SSH.Timeout == nil {
		return def, nil
	}
	d, err := time.ParseDuration(*f.SSH.Timeout)
	if err != nil {
		return def, fmt.Errorf("ssh.timeout: %w", err)
	}
	if d < 0 {
		return def, fmt.Errorf("ssh.timeout: must be >= 0")
	}
	return d, nil
}
