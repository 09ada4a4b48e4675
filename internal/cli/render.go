package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barh/pkg/config"
	"github.com/matzehuels/barh/pkg/core/layout"
	"github.com/matzehuels/barh/pkg/errors"
	"github.com/matzehuels/barh/pkg/pipeline"
)

// stdioPath selects standard input or output.
const stdioPath = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file, base path for several formats, or "-"
	formats     []string // svg, png, pdf, json
	inputFormat string   // json, toml, yaml; detected from the extension when empty
	debug       bool     // draw debug outlines
	scale       float64  // PNG zoom factor
	fontFamily  string   // overrides items_font.family
	fontSize    float64  // overrides items_font.size
	noComment   bool     // omit the generator comment from SVG output
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render <config> [output]",
		Short: "Render a chart description to SVG, PNG, PDF or JSON",
		Long: `Render reads a chart description and writes the chart.

The description format is detected from the file extension (.json, .toml,
.yaml, .yml) unless --input-format is given. Use "-" to read from stdin or to
write a single format to stdout. Without --output the chart is written next
to the input, e.g. sales.json becomes sales.svg.`,
		Example: `  barh render sales.json
  barh render sales.json sales.svg
  barh render sales.toml -f svg,png --scale 2 -o out/sales
  cat sales.yaml | barh render - --input-format yaml -o - > sales.svg`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				if opts.output != "" {
					return fmt.Errorf("output given twice: %q and --output %q", args[1], opts.output)
				}
				opts.output = args[1]
			}
			if formatsStr == "" {
				formatsStr = formatFromPath(opts.output)
			}
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.output == stdioPath && len(opts.formats) > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "only one format can be written to stdout")
			}
			return c.runRender(cmd.Context(), cmd.InOrStdin(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (single format), base path (several formats) or "-" for stdout`)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "description format: json, toml, yaml (default: from extension)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "draw debug outlines around blocks and labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "zoom factor for PNG output")
	cmd.Flags().StringVar(&opts.fontFamily, "font-family", "", "font family or font file (overrides items_font.family)")
	cmd.Flags().Float64Var(&opts.fontSize, "font-size", 0, "font size in points (overrides items_font.size)")
	cmd.Flags().BoolVar(&opts.noComment, "no-comment", false, "omit the generator comment from SVG output")

	return cmd
}

// formatFromPath returns the output format implied by a file extension, or "".
func formatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if pipeline.ValidFormats[ext] {
		return ext
	}
	return ""
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == stdioPath {
			return "chart"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if formatFromPath(output) != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// outputPaths maps each format to the file it is written to.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// readInput loads the description and decides its format.
func readInput(stdin io.Reader, input, explicit string) ([]byte, config.Format, error) {
	format := config.FormatJSON
	if input != stdioPath {
		format = config.FormatFromPath(input)
	}
	if explicit != "" {
		f, err := config.ParseFormat(explicit)
		if err != nil {
			return nil, "", err
		}
		format = f
	}

	var data []byte
	var err error
	if input == stdioPath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", input)
		}
		return nil, "", fmt.Errorf("read %s: %w", input, err)
	}
	return data, format, nil
}

func needsConversion(formats []string) bool {
	return slices.Contains(formats, pipeline.FormatPNG) || slices.Contains(formats, pipeline.FormatPDF)
}

// runRender executes the pipeline for input and writes every artifact.
func (c *CLI) runRender(ctx context.Context, stdin io.Reader, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	data, format, err := readInput(stdin, input, opts.inputFormat)
	if err != nil {
		return err
	}
	logger.Debug("read description", "input", input, "format", format, "bytes", len(data))

	prog := newProgress(logger)

	var spin *Spinner
	if needsConversion(opts.formats) {
		spin = newSpinner(ctx, "Converting with rsvg-convert...")
		spin.Start()
	}
	result, err := c.newRunner().Execute(ctx, pipeline.Options{
		Source:       data,
		SourceFormat: format,
		Debug:        opts.debug,
		FontFamily:   opts.fontFamily,
		FontSize:     opts.fontSize,
		Formats:      opts.formats,
		Scale:        opts.scale,
		NoComment:    opts.noComment,
	})
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if opts.output == stdioPath {
		_, err := stdout.Write(result.Artifacts[opts.formats[0]])
		return err
	}

	paths := outputPaths(opts.output, input, opts.formats)
	for _, f := range opts.formats {
		if err := os.WriteFile(paths[f], result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
	}
	prog.done("Rendered " + input)

	title := result.Config.Title
	if title == "" {
		title = input
	}
	printSuccess("Rendered %s", StyleTitle.Render(title))
	printStats(result.Stats.Items, result.Stats.Width, result.Stats.Height)
	for _, f := range opts.formats {
		printFile(paths[f])
	}
	if result.Layout.Overflow {
		printWarning("values exceed hor_axis.max_value (%s)", layout.FormatNumber(result.Layout.Ceiling))
	}
	return nil
}
