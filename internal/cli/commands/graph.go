package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/modeler/internal/cli/ui"
	"github.com/conduit-lang/modeler/internal/design/choice"
	"github.com/conduit-lang/modeler/internal/design/emit"
	"github.com/conduit-lang/modeler/internal/design/project"
	ustrings "github.com/conduit-lang/modeler/internal/util/strings"
)

// NewGraphCommand creates the graph command
func NewGraphCommand(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "graph [category]",
		Short: "Print a Graphviz graph of the design",
		Long: `Print the transitions of a transition category as a Graphviz digraph.
Without a category, print the facet dependency graph of the whole design.

Examples:
  modeler graph orderstate | dot -Tsvg > orderstate.svg
  modeler graph
  modeler graph orderstate -o orderstate.dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open(cmd)
			if err != nil {
				return err
			}

			d, err := s.build(false)
			if err != nil {
				return err
			}

			var write func(emit.Sink) error
			if len(args) == 0 {
				write = func(sink emit.Sink) error { return emit.DependencyGraph(d, sink) }
			} else {
				tc, err := transitionCategory(s, d, args[0])
				if err != nil {
					return err
				}
				write = func(sink emit.Sink) error { return emit.TransitionGraph(tc, sink) }
			}

			sink, path, err := s.sink(output)
			if err != nil {
				return err
			}
			if err := write(sink); err != nil {
				sink.Close()
				return fmt.Errorf("failed to write graph: %w", err)
			}
			if err := sink.Close(); err != nil {
				return fmt.Errorf("failed to write graph: %w", err)
			}
			if path != "" {
				ui.WriteSuccess(s.out, "Wrote "+path, s.noColor)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the graph to a file")

	return cmd
}

// transitionCategory looks up a transition category by name, reporting
// unknown names with the closest declared ones
func transitionCategory(s *session, d *project.Design, name string) (*choice.TransitionCategory, error) {
	c, ok := d.Category(name)
	if !ok {
		var names []string
		for _, c := range d.Categories() {
			if c.Kind() == choice.KindTransition {
				names = append(names, c.Base().Name())
			}
		}
		fmt.Fprint(s.errOut, ui.NotFoundError("category", name, ustrings.FindSimilar(name, names, nil), s.noColor))
		return nil, reportedError{fmt.Errorf("category %s not found", name)}
	}

	tc, ok := c.(*choice.TransitionCategory)
	if !ok {
		return nil, fmt.Errorf("category %s has no transitions", name)
	}
	return tc, nil
}
