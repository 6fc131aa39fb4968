package cliargs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildSourceInputsReadsRootIgnoreFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\n"), 0o600); err != nil {
		t.Fatalf("write .gitignore: %v", err)
	}

	in, err := BuildSourceInputs(Flags{Root: root})
	if err != nil {
		t.Fatalf("BuildSourceInputs: %v", err)
	}
	if len(in.RootIgnoreFiles) != 1 {
		t.Fatalf("expected one root ignore file, got %d", len(in.RootIgnoreFiles))
	}
	if in.RootIgnoreFiles[0].Text != "*.log\n" {
		t.Fatalf("unexpected root ignore file text: %q", in.RootIgnoreFiles[0].Text)
	}
}

func TestBuildSourceInputsNoRootIgnoreFile(t *testing.T) {
	root := t.TempDir()
	in, err := BuildSourceInputs(Flags{Root: root})
	if err != nil {
		t.Fatalf("BuildSourceInputs: %v", err)
	}
	if len(in.RootIgnoreFiles) != 0 {
		t.Fatalf("expected no root ignore files, got %d", len(in.RootIgnoreFiles))
	}
}

func TestBuildSourceInputsResolvesEcosystemNames(t *testing.T) {
	root := t.TempDir()
	in, err := BuildSourceInputs(Flags{Root: root, WithEcosystem: []string{"go"}})
	if err != nil {
		t.Fatalf("BuildSourceInputs: %v", err)
	}
	if len(in.Ecosystems) != 1 || in.Ecosystems[0].Name != "go" {
		t.Fatalf("expected one 'go' ecosystem entry, got %v", in.Ecosystems)
	}
}

func TestBuildSourceInputsUnknownEcosystemErrors(t *testing.T) {
	root := t.TempDir()
	_, err := BuildSourceInputs(Flags{Root: root, WithEcosystem: []string{"not-a-real-ecosystem"}})
	if err == nil {
		t.Fatal("expected error for unknown ecosystem name")
	}
}

func TestBuildSourceInputsCLIIgnorefileBaseIsRelativeSubdir(t *testing.T) {
	root := t.TempDir()
	nestedDir := filepath.Join(root, "nested")
	if err := os.MkdirAll(nestedDir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	nestedFile := filepath.Join(nestedDir, "extra.ignore")
	if err := os.WriteFile(nestedFile, []byte("*.tmp\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	in, err := BuildSourceInputs(Flags{Root: root, WithIgnorefile: []string{nestedFile}})
	if err != nil {
		t.Fatalf("BuildSourceInputs: %v", err)
	}
	if len(in.CLIIgnoreFiles) != 1 {
		t.Fatalf("expected one CLI ignore file, got %d", len(in.CLIIgnoreFiles))
	}
	if in.CLIIgnoreFiles[0].Base != "nested" {
		t.Fatalf("expected base %q, got %q", "nested", in.CLIIgnoreFiles[0].Base)
	}
}

func TestBuildSourceInputsPassesThroughCLIExcludeInclude(t *testing.T) {
	root := t.TempDir()
	in, err := BuildSourceInputs(Flags{
		Root:        root,
		WithExclude: []string{"*.bak"},
		WithInclude: []string{"!important.bak"},
	})
	if err != nil {
		t.Fatalf("BuildSourceInputs: %v", err)
	}
	if len(in.CLIExclude) != 1 || in.CLIExclude[0] != "*.bak" {
		t.Fatalf("unexpected CLIExclude: %v", in.CLIExclude)
	}
	if len(in.CLIInclude) != 1 || in.CLIInclude[0] != "!important.bak" {
		t.Fatalf("unexpected CLIInclude: %v", in.CLIInclude)
	}
}
