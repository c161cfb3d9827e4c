package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true, "Class", "Facets").AlignRight(1)
	table.AddRow("uniqueidentified", 12)
	table.AddRow("named", 3)
	table.AddRow("lifecycle")
	table.Render()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"Class             Facets",
		"────────────────  ──────",
		"uniqueidentified      12",
		"named                  3",
		"lifecycle",
	}, lines)
}

func TestEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, true).Render()
	assert.Empty(t, buf.String())
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewKeyValueTable(&buf, true)
	table.AddRow("Entities", 4)
	table.AddRow("Cycles", 0)
	table.Render()

	assert.Equal(t, "Entities: 4\nCycles:   0\n", buf.String())
}
