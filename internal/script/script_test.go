package script

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"prompt", Prompt},
		{"PROMPT", Prompt},
		{"status", Status},
		{"Processing", Status},
		{"warn", Warning},
		{"warning", Warning},
		{"success", Success},
		{"ok", Success},
		{"plain", Plain},
		{"", Plain},
		{"banner", Plain},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseCategory(tt.in); got != tt.want {
				t.Errorf("ParseCategory(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategoryPrefix(t *testing.T) {
	if Plain.Prefix() != "" {
		t.Errorf("Plain prefix = %q, want empty", Plain.Prefix())
	}
	for _, c := range []Category{Prompt, Status, Warning, Success} {
		if c.Prefix() == "" {
			t.Errorf("%v should have a prefix", c)
		}
	}
}

func TestLineHelpers(t *testing.T) {
	l := P("ls -la")
	if l.Display() != "$ ls -la" {
		t.Errorf("Display() = %q", l.Display())
	}
	if l.HasExplicitDelay() {
		t.Error("new line should not have an explicit delay")
	}
	d := l.WithDelay(0)
	if !d.HasExplicitDelay() || *d.DelayMS != 0 {
		t.Error("WithDelay(0) should set an explicit zero delay")
	}
	if l.HasExplicitDelay() {
		t.Error("WithDelay must not modify the receiver")
	}
	v := T("Q1").WithValue(12.5)
	if v.Value == nil || *v.Value != 12.5 {
		t.Error("WithValue should set the chart value")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "deploy.yaml", `
title: Deploy pipeline
kind: terminal
lines:
  - text: "deploy v1.2"
    instant: true
  - category: prompt
    text: "kubectl apply -f app.yaml"
  - category: status
    text: "Building image..."
    color: "#FFD93D"
  - category: success
    text: "rolled out"
    delay_ms: 0
`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "deploy" {
		t.Errorf("Name = %q, want file base name %q", s.Name, "deploy")
	}
	if s.Title != "Deploy pipeline" {
		t.Errorf("Title = %q", s.Title)
	}
	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", s.Len())
	}
	if !s.Lines[0].Instant {
		t.Error("line 0 should be instant")
	}
	if s.Lines[1].Category != Prompt {
		t.Errorf("line 1 category = %v, want prompt", s.Lines[1].Category)
	}
	if s.Lines[2].ColorHint != "#FFD93D" {
		t.Errorf("line 2 color = %q", s.Lines[2].ColorHint)
	}
	if s.Lines[3].DelayMS == nil || *s.Lines[3].DelayMS != 0 {
		t.Error("line 3 should carry an explicit zero delay")
	}
	if s.Source != path {
		t.Errorf("Source = %q, want %q", s.Source, path)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		path := writeFile(t, dir, "typo.yaml", "name: x\nlines:\n  - txt: oops\n")
		_, err := Load(path)
		if err == nil {
			t.Fatal("expected error for unknown field")
		}
		if !strings.Contains(err.Error(), "typo.yaml") {
			t.Errorf("error should mention the file: %v", err)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		path := writeFile(t, dir, "kind.yaml", "name: x\nkind: hologram\nlines: []\n")
		if _, err := Load(path); err == nil {
			t.Error("expected error for unknown kind")
		}
	})
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.yaml", "")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.Kind != KindTerminal {
		t.Errorf("Kind = %q, want terminal default", s.Kind)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yml", "name: bravo\nlines:\n  - text: b\n")
	writeFile(t, dir, "a.yaml", "name: alpha\nlines:\n  - text: a\n")
	writeFile(t, dir, "notes.txt", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "sub.yaml"), 0755); err != nil {
		t.Fatal(err)
	}

	scripts, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	got := Names(scripts)
	if len(got) != 2 || got[0] != "alpha" || got[1] != "bravo" {
		t.Errorf("Names = %v, want [alpha bravo]", got)
	}
}

func TestLoadDir_Missing(t *testing.T) {
	scripts, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("LoadDir on missing dir: %v", err)
	}
	if len(scripts) != 0 {
		t.Errorf("expected no scripts, got %d", len(scripts))
	}
}

func TestFind(t *testing.T) {
	scripts := []Script{{Name: "a"}, {Name: "b"}}
	if s, ok := Find(scripts, "b"); !ok || s.Name != "b" {
		t.Errorf("Find(b) = %v, %v", s, ok)
	}
	if _, ok := Find(scripts, "c"); ok {
		t.Error("Find(c) should report false")
	}
}

func TestBuiltins(t *testing.T) {
	scripts := Builtins(rand.New(rand.NewPCG(1, 2)))
	if len(scripts) != 3 {
		t.Fatalf("expected 3 builtins, got %d", len(scripts))
	}
	kinds := map[Kind]bool{}
	for _, s := range scripts {
		kinds[s.Kind] = true
		if s.Len() == 0 {
			t.Errorf("builtin %q has no lines", s.Name)
		}
		if s.Source != "builtin" {
			t.Errorf("builtin %q source = %q", s.Name, s.Source)
		}
	}
	for _, k := range []Kind{KindTerminal, KindChat, KindChart} {
		if !kinds[k] {
			t.Errorf("missing builtin of kind %q", k)
		}
	}

	metrics, _ := Find(scripts, "metrics")
	values := 0
	for _, l := range metrics.Lines {
		if l.Value != nil {
			values++
		}
	}
	if values == 0 {
		t.Error("chart builtin should carry values")
	}
}

func TestBuiltins_DeterministicForSeed(t *testing.T) {
	a := Builtins(rand.New(rand.NewPCG(7, 7)))
	b := Builtins(rand.New(rand.NewPCG(7, 7)))
	for i := range a {
		if len(a[i].Lines) != len(b[i].Lines) {
			t.Fatalf("%s: line counts differ", a[i].Name)
		}
		for j := range a[i].Lines {
			if a[i].Lines[j].Text != b[i].Lines[j].Text {
				t.Errorf("%s line %d: %q != %q", a[i].Name, j, a[i].Lines[j].Text, b[i].Lines[j].Text)
			}
		}
	}
}
