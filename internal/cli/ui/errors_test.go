package ui

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	derrors "github.com/conduit-lang/modeler/internal/design/errors"
)

func TestMessageString(t *testing.T) {
	tests := []struct {
		name     string
		msg      Message
		contains []string
	}{
		{
			name: "basic error",
			msg: Message{
				Title:   "entity not found",
				Problem: "Cannot find entity 'invoice'.",
			},
			contains: []string{"❌", "ENTITY NOT FOUND: Cannot find entity 'invoice'."},
		},
		{
			name: "location and hint",
			msg: Message{
				Problem:  "category has no default",
				Location: "invoice.lifecycle",
				Hint:     "Set a default value",
			},
			contains: []string{"   at invoice.lifecycle", "   Set a default value"},
		},
		{
			name: "suggestions and help",
			msg: Message{
				Problem:     "unknown",
				Suggestions: []string{"customer", "custom"},
				NextSteps:   []string{"List the design: modeler describe"},
			},
			contains: []string{"Did you mean: customer, custom?", "→ List the design: modeler describe"},
		},
		{
			name:     "warning",
			msg:      Message{Severity: SeverityWarning, Problem: "cycle"},
			contains: []string{"⚠️ cycle"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.msg.NoColor = true
			out := tt.msg.String()
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestDesignFault(t *testing.T) {
	fault := derrors.NewUnresolvedEntity("custmer", []string{"customer"})
	err := fmt.Errorf("design/a.yml: %w", derrors.Locate(fault, "invoice", "customerlink"))

	out := DesignFault(err, true)
	assert.Contains(t, out, "REF400 UNRESOLVED ENTITY: design/a.yml: entity custmer is not declared in the design")
	assert.Contains(t, out, "at invoice.customerlink")
	assert.Contains(t, out, "Did you mean: customer?")
	assert.Contains(t, out, "modeler describe")

	hint := derrors.NewMissingDefault("state", "INWORK")
	out = DesignFault(hint, true)
	assert.Contains(t, out, "STR108")
	assert.NotContains(t, out, "Did you mean")

	out = DesignFault(errors.New("disk full"), true)
	assert.Contains(t, out, "❌ disk full")
}

func TestSuccessAndConfig(t *testing.T) {
	var buf bytes.Buffer
	WriteSuccess(&buf, "design is valid", true)
	assert.Equal(t, "✓ design is valid\n", buf.String())

	assert.Contains(t, ConfigError("log.level is invalid", true), "CONFIGURATION ERROR: log.level is invalid")
	assert.Contains(t, Warning("careful", true), "careful")
	assert.Contains(t, NotFoundError("category", "colr", []string{"color"}, true), "Did you mean: color?")
}
