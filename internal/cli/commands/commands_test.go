package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mutual = `
entities:
  - name: left
    facets:
      - {class: audit, depends_on: [right.audit]}
  - name: right
    facets:
      - {class: audit, depends_on: [left.audit]}
`

const dangling = `
entities:
  - name: invoice
    facets:
      - {class: linkedtoparent, parent: custmer}
  - name: customer
    facets:
      - class: uniqueidentified
`

// run executes the root command with args and returns what it printed.
// Failures are reported the way Execute reports them.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))

	err := cmd.Execute()
	if err != nil {
		report(cmd, err)
	}
	return stdout.String(), stderr.String(), err
}

// sampleProject scaffolds a sample project in a temporary directory
func sampleProject(t *testing.T, args ...string) string {
	t.Helper()
	dir := t.TempDir()
	_, _, err := run(t, append([]string{"-C", dir, "new", "shop"}, args...)...)
	require.NoError(t, err)
	return filepath.Join(dir, "shop")
}

// designProject writes a project whose design is the given YAML
func designProject(t *testing.T, yml string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "design"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "modeler.yml"), []byte("project_name: test\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "design", "model.yml"), []byte(yml), 0644))
	return dir
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "modeler", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, expected := range []string{"version", "new", "validate", "describe", "graph"} {
		assert.Contains(t, names, expected)
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	defer func() { Version, GitCommit = "dev", "unknown" }()

	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Modeler version: 1.0.0-test")
	assert.Contains(t, out, "Git commit: abc123")
	assert.Contains(t, out, "Go version: go")
}

func TestValidateSampleProject(t *testing.T) {
	dir := sampleProject(t, "--module", "sales")

	out, stderr, err := run(t, "-C", dir, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Design is valid: 2 entities")
	assert.Contains(t, out, "1 categories")
	assert.Empty(t, stderr)

	out, _, err = run(t, "-C", dir, "validate", "--reverse-order", "--report")
	require.NoError(t, err)
	assert.Contains(t, out, "Dependency Analysis Report")
	assert.Contains(t, out, "order.customerlink")
}

func TestValidateFromNestedDirectory(t *testing.T) {
	dir := sampleProject(t)

	_, _, err := run(t, "-C", filepath.Join(dir, "design"), "validate")
	assert.NoError(t, err)
}

func TestValidateReportsFault(t *testing.T) {
	dir := designProject(t, dangling)

	_, stderr, err := run(t, "-C", dir, "validate")
	require.Error(t, err)
	assert.Contains(t, stderr, "REF400")
	assert.Contains(t, stderr, "model.yml")
	assert.Contains(t, stderr, "at invoice.custmerlink")
	assert.Contains(t, stderr, "Did you mean: customer?")
}

func TestValidateWarnsOnCycles(t *testing.T) {
	dir := designProject(t, mutual)

	out, stderr, err := run(t, "-C", dir, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Design is valid: 2 entities, 2 facets, 0 categories")
	assert.Contains(t, stderr, "1 facet dependency cycle(s)")
	assert.Contains(t, stderr, "left.audit -> right.audit -> left.audit")
}

// syncBuffer is written by the watcher goroutine and read by the test
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestValidateWatch(t *testing.T) {
	dir := sampleProject(t)
	out := &syncBuffer{}

	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--no-color", "-C", dir, "validate", "--watch"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	contains := func(s string) func() bool {
		return func() bool { return strings.Contains(out.String(), s) }
	}
	require.Eventually(t, contains("Watching for changes"), 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, out.String(), "Design is valid: 2 entities")

	design := filepath.Join(dir, "design", "main.yml")
	require.NoError(t, os.WriteFile(design, []byte(dangling), 0644))
	require.Eventually(t, contains("REF400"), 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, out.String(), "Changed: "+design)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestValidateMissingDesignFiles(t *testing.T) {
	_, stderr, err := run(t, "-C", t.TempDir(), "validate")
	require.Error(t, err)
	assert.Contains(t, stderr, "no design files match")
}

func TestValidateReportsBadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "modeler.yml"), []byte("log:\n  level: loud\n"), 0644))

	_, stderr, err := run(t, "-C", dir, "validate")
	require.Error(t, err)
	assert.Contains(t, stderr, "CONFIGURATION ERROR: log.level must be one of debug, info, warn, error, got: loud")
	assert.Contains(t, stderr, "→ View config: cat modeler.yml")
	assert.Equal(t, 1, strings.Count(stderr, "❌"))
}

func TestDescribe(t *testing.T) {
	dir := sampleProject(t, "--module", "sales")

	out, _, err := run(t, "-C", dir, "describe")
	require.NoError(t, err)
	assert.Contains(t, out, "module sales\n")
	assert.Contains(t, out, "  category orderstate (transition, key 8)")
	assert.Contains(t, out, "  entity order \"Order\"")
	assert.Contains(t, out, "  entity customer \"Customer\"")
}

func TestDescribeToFile(t *testing.T) {
	dir := sampleProject(t)

	out, _, err := run(t, "-C", dir, "describe", "-o", "outline.txt")
	require.NoError(t, err)

	path := filepath.Join(dir, "build", "design", "outline.txt")
	assert.Contains(t, out, "Wrote "+path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "module main")
}

func TestDescribeJSON(t *testing.T) {
	dir := sampleProject(t, "--module", "sales")

	out, _, err := run(t, "-C", dir, "describe", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"build_id":`)
	assert.Contains(t, out, `"path": "sales"`)
	assert.Contains(t, out, `"name": "orderstate"`)

	_, _, err = run(t, "-C", dir, "describe", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestDescribeStats(t *testing.T) {
	dir := sampleProject(t)

	out, _, err := run(t, "-C", dir, "describe", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entities:              2")
	assert.Contains(t, out, "Transition categories: 1")
	assert.Contains(t, out, "Class")
	assert.Contains(t, out, "lifecycle")
}

func TestGraph(t *testing.T) {
	dir := sampleProject(t)

	out, _, err := run(t, "-C", dir, "graph", "orderstate")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph \"orderstate\" {")
	assert.Contains(t, out, "  \"DRAFT\" -> \"INWORK\";")

	out, _, err = run(t, "-C", dir, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "subgraph cluster_")

	_, err = os.Stat(filepath.Join(dir, "build", "design", "orderstate.dot"))
	assert.True(t, os.IsNotExist(err))
	_, _, err = run(t, "-C", dir, "graph", "orderstate", "-o", "orderstate.dot")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "build", "design", "orderstate.dot"))
}

func TestGraphUnknownCategory(t *testing.T) {
	dir := sampleProject(t)

	_, stderr, err := run(t, "-C", dir, "graph", "orderstat")
	require.Error(t, err)
	assert.IsType(t, reportedError{}, err)
	assert.Contains(t, stderr, "CATEGORY NOT FOUND: Cannot find category 'orderstat'.")
	assert.Contains(t, stderr, "Did you mean: orderstate?")
	assert.NotContains(t, stderr, "category orderstat not found")
}

func TestNewWithoutLifecycle(t *testing.T) {
	dir := sampleProject(t, "--lifecycle=false")

	content, err := os.ReadFile(filepath.Join(dir, "design", "main.yml"))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "orderstate")

	out, _, err := run(t, "-C", dir, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "0 categories")
}

func TestNewWritesConfig(t *testing.T) {
	dir := sampleProject(t, "--module", "sales")

	content, err := os.ReadFile(filepath.Join(dir, "modeler.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "project_name: shop")
	assert.Contains(t, string(content), "module: sales")
	assert.FileExists(t, filepath.Join(dir, "design", "sales.yml"))
}

func TestNewRejectsExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "shop"), 0755))

	_, stderr, err := run(t, "-C", dir, "new", "shop")
	require.Error(t, err)
	assert.Contains(t, stderr, "directory shop already exists")
}

func TestNewRejectsBadModule(t *testing.T) {
	_, _, err := run(t, "-C", t.TempDir(), "new", "shop", "--module", "Sales")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lowercase")
}

func TestValidateProjectName(t *testing.T) {
	testCases := []struct {
		name        string
		projectName string
		errorMsg    string
	}{
		{name: "valid name", projectName: "my-project"},
		{name: "valid name with underscores", projectName: "my_project"},
		{name: "empty string", projectName: "", errorMsg: "must be 1-100 characters"},
		{name: "whitespace only", projectName: "   ", errorMsg: "must be 1-100 characters"},
		{name: "contains slash", projectName: "my/project", errorMsg: "can only contain letters, numbers, dashes, and underscores"},
		{name: "path traversal attempt", projectName: "../malicious", errorMsg: "can only contain letters, numbers, dashes, and underscores"},
		{name: "absolute path", projectName: "/usr/bin/malware", errorMsg: "cannot be an absolute path"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateProjectName(tc.projectName)
			if tc.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorMsg)
		})
	}
}
