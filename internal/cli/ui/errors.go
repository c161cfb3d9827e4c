package ui

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"

	derrors "github.com/conduit-lang/modeler/internal/design/errors"
)

// Severity selects the symbol and colors of a message
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

type palette struct {
	symbol string
	header []color.Attribute
	body   color.Attribute
}

var palettes = map[Severity]palette{
	SeverityError:   {"❌", []color.Attribute{color.FgRed, color.Bold}, color.FgRed},
	SeverityWarning: {"⚠️", []color.Attribute{color.FgYellow, color.Bold}, color.FgYellow},
	SeverityInfo:    {"ℹ️", []color.Attribute{color.FgCyan, color.Bold}, color.FgCyan},
}

// Message is a problem report for the terminal
type Message struct {
	Severity    Severity
	Title       string
	Problem     string
	Location    string
	Hint        string
	Suggestions []string
	NextSteps   []string
	NoColor     bool
}

// paint returns a color that honors m.NoColor
func (m Message) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if m.NoColor {
		c.DisableColor()
	}
	return c
}

// String renders the message. A reference fault looks like:
//
//	❌ REF400 UNRESOLVED ENTITY: entity custmer is not declared in the design
//	   at invoice.customerlink
//
//	   Did you mean: customer?
//
//	   → List the design: modeler describe
func (m Message) String() string {
	p := palettes[m.Severity]
	header := m.paint(p.header...)
	body := m.paint(p.body)

	var b strings.Builder
	line := m.Problem
	if m.Title != "" {
		line = strings.ToUpper(m.Title) + ": " + line
	}
	header.Fprintf(&b, "%s %s\n", p.symbol, line)
	if m.Location != "" {
		body.Fprintf(&b, "   at %s\n", m.Location)
	}

	if m.Hint != "" {
		body.Fprintf(&b, "\n   %s\n", m.Hint)
	}
	if len(m.Suggestions) > 0 {
		m.paint(color.FgYellow).Fprintf(&b, "\n   Did you mean: %s?\n", strings.Join(m.Suggestions, ", "))
	}
	if len(m.NextSteps) > 0 {
		b.WriteString("\n")
		steps := m.paint(color.FgCyan)
		for _, step := range m.NextSteps {
			steps.Fprintf(&b, "   → %s\n", step)
		}
	}
	return b.String()
}

// Success renders a confirmation line
func Success(message string, noColor bool) string {
	return Message{NoColor: noColor}.paint(color.FgGreen, color.Bold).Sprintf("✓ %s", message)
}

// WriteSuccess writes a confirmation line to w
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, Success(message, noColor))
}

// DesignFault renders a design fault with its code, location and hint. Errors
// that carry no DesignError render as a plain error.
func DesignFault(err error, noColor bool) string {
	var de *derrors.DesignError
	if !errors.As(err, &de) {
		return Message{Problem: err.Error(), NoColor: noColor}.String()
	}

	problem := de.Message
	if prefix := strings.TrimSuffix(err.Error(), de.Error()); prefix != "" {
		// source file added by the loader
		problem = strings.TrimSuffix(prefix, ": ") + ": " + problem
	}

	m := Message{
		Title:    string(de.Code) + " " + strings.ReplaceAll(de.Type, "_", " "),
		Problem:  problem,
		Location: faultLocation(de),
		NoColor:  noColor,
	}
	if list, ok := strings.CutPrefix(de.Suggestion, "Did you mean: "); ok {
		m.Suggestions = strings.Split(strings.TrimSuffix(list, "?"), ", ")
	} else {
		m.Hint = de.Suggestion
	}
	if de.Category == derrors.CategoryReference {
		m.NextSteps = []string{"List the design: modeler describe"}
	}
	return m.String()
}

func faultLocation(de *derrors.DesignError) string {
	path := slices.DeleteFunc([]string{de.Entity, de.Facet, de.Field}, func(s string) bool { return s == "" })
	return strings.Join(path, ".")
}

// NotFoundError reports an unknown design element
func NotFoundError(kind, name string, suggestions []string, noColor bool) string {
	return Message{
		Title:       kind + " not found",
		Problem:     fmt.Sprintf("Cannot find %s '%s'.", kind, name),
		Suggestions: suggestions,
		NextSteps:   []string{"List the design: modeler describe"},
		NoColor:     noColor,
	}.String()
}

// ConfigError reports an unusable project configuration
func ConfigError(message string, noColor bool) string {
	return Message{
		Title:     "configuration error",
		Problem:   message,
		NextSteps: []string{"View config: cat modeler.yml", "Get help: modeler --help"},
		NoColor:   noColor,
	}.String()
}

// Warning renders a warning line
func Warning(message string, noColor bool) string {
	return Message{Severity: SeverityWarning, Problem: message, NoColor: noColor}.String()
}
