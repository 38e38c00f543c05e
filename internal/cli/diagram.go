package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/unitconv/pkg/diagram"
	"github.com/matzehuels/unitconv/pkg/pipeline"
)

// diagramOpts holds the command-line flags for the diagram command.
type diagramOpts struct {
	output   string // output file; "-" writes to stdout
	format   string // svg, png or dot; inferred from output's extension when empty
	detailed bool   // label nodes with names as well as symbols
	noCache  bool   // bypass the diagram cache
}

// diagramCommand renders the conversion graph of a category.
func (c *CLI) diagramCommand() *cobra.Command {
	var opts diagramOpts

	cmd := &cobra.Command{
		Use:   "diagram CATEGORY",
		Short: "Render a category's conversion graph",
		Long: `Render how the units of a category relate to its base unit.

Linear categories are drawn as a hub around the base unit with the scale
factor on each edge. Temperature is drawn around Celsius with the formula
on each edge.`,
		Example: `  unitconv diagram length
  unitconv diagram temperature -o temp.png
  unitconv diagram weight --format dot -o -`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCategories,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDiagram(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default <category>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), png, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with unit names")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runDiagram(ctx context.Context, category string, opts diagramOpts) error {
	format := resolveDiagramFormat(opts.format, opts.output)
	if err := diagram.ValidateFormat(format); err != nil {
		return err
	}
	output := opts.output
	if output == "" {
		output = category + "." + format
	}

	runner, err := c.newRunner(ctx, -1, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s diagram...", category))
	spinner.Start()
	out, err := runner.Diagram(ctx, category, format, diagram.Options{Detailed: opts.detailed})
	if err != nil {
		spinner.Stop()
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s diagram", category))

	if output == "-" {
		spinner.Stop()
		_, err := stdout.Write(out.Data)
		return err
	}
	finishRender(spinner, category, out)

	if err := os.WriteFile(output, out.Data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Diagram written")
	printFile(output)
	printCacheStatus(fmt.Sprintf("%s · %d bytes", format, len(out.Data)), out.Cached)
	return nil
}

// finishRender stops the spinner with a warning when the render could not be
// cached, and with a success line otherwise.
func finishRender(s *Spinner, category string, out *pipeline.Rendered) {
	if out.CacheErr != nil {
		s.StopWithWarning(fmt.Sprintf("Rendered %s diagram, not cached: %v", category, out.CacheErr))
		return
	}
	s.StopWithSuccess(fmt.Sprintf("Rendered %s diagram", category))
}

// resolveDiagramFormat returns the explicit format, else the output file's
// extension, else SVG.
func resolveDiagramFormat(format, output string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return diagram.FormatSVG
}
