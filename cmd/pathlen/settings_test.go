package main

import (
	"strings"
	"testing"
	"time"

	"github.com/sadopc/pathlen/internal/config"
	"github.com/sadopc/pathlen/internal/pathlength"
	"github.com/sadopc/pathlen/internal/report"
	"github.com/sadopc/pathlen/internal/search"
)

func mustParseConfig(t *testing.T, content string) *config.File {
	t.Helper()
	f, err := config.Parse([]byte(content))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return f
}

func TestResolveSettings_Defaults(t *testing.T) {
	s, err := resolveSettings(cliFlags{}, nil, nil, searchTarget{}, nil)
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if s.Options.RootDirectory != "." {
		t.Fatalf("root = %q, want .", s.Options.RootDirectory)
	}
	if s.Options.MinimumPathLength != 0 || s.Options.MaximumPathLength != pathlength.MaxPathLengthLimit {
		t.Fatalf("unexpected bounds: %d..%d", s.Options.MinimumPathLength, s.Options.MaximumPathLength)
	}
	if s.Output.Type != config.OutputPaths || s.Output.Format != formatText || !s.Output.IncludeLength || s.Output.Sorted {
		t.Fatalf("unexpected output config: %+v", s.Output)
	}
	if s.SSH.Port != defaultSSHPort || s.SSH.Timeout != defaultSSHTimeout {
		t.Fatalf("unexpected ssh config: %+v", s.SSH)
	}
}

func TestResolveSettings_Precedence(t *testing.T) {
	file := mustParseConfig(t, `
root = "/from/config"
min_length = 10
max_length = 20
strategy = "safe"

[output]
format = "csv"
sort = "path"

[ssh]
port = 2200
timeout = "3s"
`)
	f := cliFlags{maxLen: 30, format: "text", sshTimeout: 7}
	set := map[string]bool{"max": true, "format": true, "ssh-timeout": true}
	target := searchTarget{LocalPath: "/from/target"}

	s, err := resolveSettings(f, set, file, target, []string{"MinLength=12", "Output=MaxLength"})
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}

	if s.Options.RootDirectory != "/from/target" {
		t.Fatalf("target should override config root, got %q", s.Options.RootDirectory)
	}
	if s.Options.MinimumPathLength != 12 {
		t.Fatalf("key=value should override config min, got %d", s.Options.MinimumPathLength)
	}
	if s.Options.MaximumPathLength != 30 {
		t.Fatalf("flag should override config max, got %d", s.Options.MaximumPathLength)
	}
	if s.Options.Strategy != search.StrategySafe {
		t.Fatalf("expected strategy from config, got %v", s.Options.Strategy)
	}
	if s.Output.Format != formatText {
		t.Fatalf("flag should override config format, got %q", s.Output.Format)
	}
	if s.Output.Type != config.OutputMaxLength {
		t.Fatalf("expected Output parameter to win, got %v", s.Output.Type)
	}
	if !s.Output.Sorted || s.Output.Sort != (report.SortConfig{Field: report.SortByPath, Order: report.SortAsc}) {
		t.Fatalf("expected path sort from config, got %+v", s.Output)
	}
	if s.SSH.Port != 2200 || s.SSH.Timeout != 7*time.Second {
		t.Fatalf("unexpected ssh config: %+v", s.SSH)
	}
}

func TestResolveSettings_RootDirectoryParameterBeatsTarget(t *testing.T) {
	s, err := resolveSettings(cliFlags{}, nil, nil, searchTarget{LocalPath: "a"}, []string{"RootDirectory=b"})
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if s.Options.RootDirectory != "b" {
		t.Fatalf("root = %q, want b", s.Options.RootDirectory)
	}
}

func TestResolveSettings_RemoteTargetSetsRoot(t *testing.T) {
	target := searchTarget{Remote: true, SSHDestination: "alice@host", RemotePath: "/var/log"}
	s, err := resolveSettings(cliFlags{}, nil, nil, target, nil)
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if s.Options.RootDirectory != "/var/log" {
		t.Fatalf("root = %q, want /var/log", s.Options.RootDirectory)
	}
}

func TestResolveSettings_FlagsMapToOptions(t *testing.T) {
	f := cliFlags{
		unit:      "utf16",
		pattern:   "*.go",
		types:     "files",
		topOnly:   true,
		replace:   "",
		urlEncode: true,
		noLength:  true,
		sshBatch:  true,
	}
	set := map[string]bool{
		"unit": true, "pattern": true, "types": true, "top": true,
		"replace": true, "url-encode": true, "no-length": true, "ssh-batch": true,
	}
	s, err := resolveSettings(f, set, nil, searchTarget{}, nil)
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	o := s.Options
	if o.Unit != pathlength.UnitUTF16 || o.SearchPattern != "*.go" || o.TypesToGet != search.Files {
		t.Fatalf("unexpected options: %+v", o)
	}
	if o.Recursive {
		t.Fatal("-top should disable recursion")
	}
	if o.RootDirectoryReplacement == nil || *o.RootDirectoryReplacement != "" {
		t.Fatal("an explicitly empty -replace still substitutes")
	}
	if !o.URLEncodePaths || s.Output.IncludeLength || !s.SSH.BatchMode {
		t.Fatalf("unexpected settings: %+v", s)
	}
}

func TestResolveSettings_Errors(t *testing.T) {
	tests := []struct {
		name   string
		f      cliFlags
		set    map[string]bool
		params []string
		want   string
	}{
		{"bad unit", cliFlags{unit: "parsecs"}, map[string]bool{"unit": true}, nil, "parsecs"},
		{"bad format", cliFlags{format: "xml"}, map[string]bool{"format": true}, nil, "unknown format"},
		{"bad sort", cliFlags{sort: "size"}, map[string]bool{"sort": true}, nil, "unknown sort field"},
		{"bad output", cliFlags{output: "all"}, map[string]bool{"output": true}, nil, "unknown output type"},
		{"bad port", cliFlags{sshPort: 70000}, map[string]bool{"ssh-port": true}, nil, "ssh-port"},
		{"negative timeout", cliFlags{sshTimeout: -1}, map[string]bool{"ssh-timeout": true}, nil, "ssh-timeout"},
		{"unknown parameter", cliFlags{}, nil, []string{"Colour=red"}, "unrecognized parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveSettings(tt.f, tt.set, nil, searchTarget{}, tt.params)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
