package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/modeler/internal/cli/ui"
	"github.com/conduit-lang/modeler/internal/watch"
)

// validateOptions holds the flags of the validate command
type validateOptions struct {
	reverse bool
	report  bool
	watch   bool
}

// NewValidateCommand creates the validate command
func NewValidateCommand(root *rootOptions) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and link the design",
		Long: `Load every design file of the project and link the design.

Declaration faults and unresolved references are reported with their
source file. Dependency cycles between facets are reported as warnings.
With --watch the design is linked again whenever a design file changes.

Examples:
  modeler validate
  modeler validate --reverse-order
  modeler validate --report
  modeler validate --watch
  modeler -C ../shop validate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open(cmd)
			if err != nil {
				return err
			}
			if opts.watch {
				return watchDesign(cmd.Context(), s, opts)
			}
			return validate(s, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.reverse, "reverse-order", false, "Link entities in reverse declaration order")
	cmd.Flags().BoolVar(&opts.report, "report", false, "Print the facet dependency report")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Validate again when design files change")

	return cmd
}

func validate(s *session, opts *validateOptions) error {
	d, err := s.build(opts.reverse)
	if err != nil {
		return err
	}

	stats := d.Stats()
	ui.WriteSuccess(s.out, fmt.Sprintf("Design is valid: %d entities, %d facets, %d categories",
		stats.Entities, stats.Facets, stats.Categories), s.noColor)

	analysis := d.Graph().Analyze()
	if analysis.HasCycles {
		fmt.Fprint(s.errOut, ui.Warning(fmt.Sprintf("%d facet dependency cycle(s)", stats.Cycles), s.noColor))
		for _, cycle := range analysis.CircularDeps {
			fmt.Fprintf(s.errOut, "   %s -> %s\n", strings.Join(cycle, " -> "), cycle[0])
		}
	}
	if opts.report {
		fmt.Fprintln(s.out)
		fmt.Fprint(s.out, analysis.String())
	}
	return nil
}

// watchDesign validates once and then after every change until ctx is done.
// Faults are printed and watching goes on.
func watchDesign(ctx context.Context, s *session, opts *validateOptions) error {
	check := func() {
		if err := validate(s, opts); err != nil {
			fmt.Fprint(s.errOut, ui.DesignFault(err, s.noColor))
		}
	}

	watcher, err := watch.NewFileWatcher(s.cfg.Design.Files, []string{"*.swp", "*~"},
		func(files []string) error {
			fmt.Fprintf(s.out, "\nChanged: %s\n", strings.Join(files, ", "))
			check()
			return nil
		},
		watch.WithLogger(s.logger))
	if err != nil {
		return err
	}

	check()
	if err := watcher.Start(); err != nil {
		watcher.Stop()
		return err
	}
	fmt.Fprintln(s.out, "Watching for changes. Press Ctrl+C to stop.")

	<-ctx.Done()
	return watcher.Stop()
}
