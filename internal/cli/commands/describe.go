package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/modeler/internal/cli/ui"
	"github.com/conduit-lang/modeler/internal/design/emit"
	"github.com/conduit-lang/modeler/internal/design/project"
)

// NewDescribeCommand creates the describe command
func NewDescribeCommand(root *rootOptions) *cobra.Command {
	var (
		output string
		format string
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the linked design",
		Long: `Link the design and print every module with its categories and
entities, as an outline or as a JSON document. Entities appear after the
entities they depend on.

A relative --output path is written below the configured output directory.

Examples:
  modeler describe
  modeler describe --stats
  modeler describe --format json -o design.json
  modeler describe -o outline.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open(cmd)
			if err != nil {
				return err
			}

			d, err := s.build(false)
			if err != nil {
				return err
			}

			if stats {
				writeStats(s, d.Stats())
				return nil
			}

			var write func(*project.Design, emit.Sink) error
			switch format {
			case "outline":
				write = emit.Outline
			case "json":
				write = emit.JSON
			default:
				return fmt.Errorf("unknown format %q (use outline or json)", format)
			}

			sink, path, err := s.sink(output)
			if err != nil {
				return err
			}
			if err := write(d, sink); err != nil {
				sink.Close()
				return fmt.Errorf("failed to write %s: %w", format, err)
			}
			if err := sink.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", format, err)
			}
			if path != "" {
				ui.WriteSuccess(s.out, "Wrote "+path, s.noColor)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the output to a file")
	cmd.Flags().StringVarP(&format, "format", "f", "outline", "Output format (outline, json)")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print element counts instead of the outline")

	return cmd
}

func writeStats(s *session, stats project.Stats) {
	summary := ui.NewKeyValueTable(s.out, s.noColor)
	summary.AddRow("Modules", stats.Modules)
	summary.AddRow("Categories", stats.Categories)
	summary.AddRow("Transition categories", stats.TransitionCategories)
	summary.AddRow("Choice values", stats.ChoiceValues)
	summary.AddRow("Entities", stats.Entities)
	summary.AddRow("Fields", stats.Fields)
	summary.AddRow("Stored values", stats.StoredValues)
	summary.AddRow("Indexes", stats.Indexes)
	summary.AddRow("Methods", stats.Methods)
	summary.AddRow("Dependencies", stats.Dependencies)
	summary.AddRow("Cycles", stats.Cycles)
	summary.Render()

	if len(stats.FacetsByClass) == 0 {
		return
	}
	fmt.Fprintln(s.out)
	classes := ui.NewTable(s.out, s.noColor, "Class", "Facets").AlignRight(1)
	for _, class := range stats.Classes() {
		classes.AddRow(class, stats.FacetsByClass[class])
	}
	classes.Render()
}
