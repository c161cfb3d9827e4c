package errors

import (
	"fmt"
	"strings"
)

// FormatError returns a multi-line message for terminal output
func FormatError(e *DesignError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s fault [%s]\n", severityIcon(e.Severity), categoryDisplayName(e.Category), e.Code)
	if loc := location(e); loc != "" {
		fmt.Fprintf(&b, "At %s:\n", loc)
	}
	fmt.Fprintf(&b, "  %s\n", e.Message)

	if e.Expected != "" || e.Actual != "" {
		b.WriteString("\n")
		if e.Expected != "" {
			fmt.Fprintf(&b, "  Expected: %s\n", e.Expected)
		}
		if e.Actual != "" {
			fmt.Fprintf(&b, "  Actual:   %s\n", e.Actual)
		}
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n💡 %s\n", e.Suggestion)
	}

	return b.String()
}

// FormatCompact returns a one-line message
func FormatCompact(e *DesignError) string {
	loc := location(e)
	if loc == "" {
		return fmt.Sprintf("%s: %s [%s]", e.Severity, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s [%s]", loc, e.Severity, e.Message, e.Code)
}

// location renders entity.facet.field(value) leaving out unknown parts
func location(e *DesignError) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{e.Entity, e.Facet, e.Field} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	loc := strings.Join(parts, ".")
	if e.Value != "" {
		if loc == "" {
			return fmt.Sprintf("value %q", e.Value)
		}
		loc = fmt.Sprintf("%s (value %q)", loc, e.Value)
	}
	return loc
}

func severityIcon(severity ErrorSeverity) string {
	switch severity {
	case SeverityFatal:
		return "❌"
	case SeverityWarning:
		return "⚠️ "
	default:
		return "•"
	}
}

func categoryDisplayName(category ErrorCategory) string {
	switch category {
	case CategoryStructural:
		return "Structural"
	case CategoryDomain:
		return "Domain"
	case CategoryUnsupported:
		return "Unsupported"
	case CategoryReference:
		return "Reference"
	case CategoryPhase:
		return "Phase"
	default:
		return "Design"
	}
}
