package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func writeAsset(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseDateFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"2026-08-01-standup.md", "2026-08-01"},
		{"2026-08-01.md", "2026-08-01"},
		{"standup.md", ""},
		{"2026-13-99-bogus.md", ""},
		{"short", ""},
	}
	for _, tt := range tests {
		if got := ParseDateFromName(tt.name); got != tt.want {
			t.Errorf("ParseDateFromName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestListByDate(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "2026-08-01-standup.md", "standup notes")
	writeAsset(t, dir, "2026-08-01-retro.md", "retro notes")
	writeAsset(t, dir, "2026-08-02-planning.md", "planning notes")
	writeAsset(t, dir, "meetings/2026-08-01-sync.md", "nested sync notes")
	writeAsset(t, dir, "undated.md", "ignored")

	loader := NewLoader(dir)
	assets, err := loader.ListByDate("2026-08-01")
	if err != nil {
		t.Fatal(err)
	}

	if len(assets) != 3 {
		t.Fatalf("got %d assets, want 3: %+v", len(assets), assets)
	}
	// Sorted by base name.
	if assets[0].Name != "2026-08-01-retro.md" {
		t.Errorf("first asset = %q", assets[0].Name)
	}
	for _, a := range assets {
		if a.Date != "2026-08-01" {
			t.Errorf("asset %q date = %q", a.Name, a.Date)
		}
		if a.Content == "" {
			t.Errorf("asset %q has empty content", a.Name)
		}
	}
}

func TestListUpTo(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "2026-08-01-standup.md", "a")
	writeAsset(t, dir, "2026-08-02-planning.md", "b")
	writeAsset(t, dir, "2026-08-03-review.md", "c")

	loader := NewLoader(dir)

	upTo, err := loader.ListUpTo("2026-08-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(upTo) != 2 {
		t.Errorf("ListUpTo = %d assets, want 2", len(upTo))
	}

	all, err := loader.ListUpTo("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("ListUpTo(\"\") = %d assets, want 3", len(all))
	}
}

func TestListMissingDir(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "does-not-exist"))
	assets, err := loader.ListByDate("2026-08-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(assets) != 0 {
		t.Errorf("expected empty result, got %+v", assets)
	}
}

func TestMembers(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "members.md", "alice\n\nbob\n  carol  \n")

	loader := NewLoader(dir)
	members := loader.Members()
	want := []string{"alice", "bob", "carol"}
	if len(members) != len(want) {
		t.Fatalf("members = %v", members)
	}
	for i := range want {
		if members[i] != want[i] {
			t.Errorf("member %d = %q, want %q", i, members[i], want[i])
		}
	}
}
