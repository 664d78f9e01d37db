// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	// SQLite driver for seeding the test project database
	_ "modernc.org/sqlite"

	"github.com/leapstack-labs/autorest/internal/cli/output"
)

// seedSQL creates the tables of the test project database.
const seedSQL = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	name VARCHAR(80),
	age INTEGER
);
CREATE TABLE logs (
	message TEXT NOT NULL
);
INSERT INTO users (id, name, age) VALUES (1, 'Alice', 31), (2, 'Bob', 27);
`

// TestProject is a temporary project with a SQLite target.
type TestProject struct {
	Dir        string
	ConfigPath string
	Database   string
	Journal    string
}

// SetupTestProject creates a temporary project: a seeded SQLite database and
// an autorest.yaml pointing at it.
func SetupTestProject(t *testing.T) *TestProject {
	t.Helper()

	dir := t.TempDir()
	p := &TestProject{
		Dir:        dir,
		ConfigPath: filepath.Join(dir, "autorest.yaml"),
		Database:   filepath.Join(dir, "app.db"),
		Journal:    filepath.Join(dir, ".autorest", "journal.db"),
	}

	db, err := sql.Open("sqlite", p.Database)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(seedSQL); err != nil {
		t.Fatalf("failed to seed test database: %v", err)
	}

	cfg := "target:\n" +
		"  type: sqlite\n" +
		"  database: " + p.Database + "\n" +
		"journal_path: " + p.Journal + "\n"
	if err := os.WriteFile(p.ConfigPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("failed to create autorest.yaml: %v", err)
	}

	return p
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
