// Package pipeline provides the chart pipeline shared by the CLI and the
// render server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: decode a JSON, TOML or YAML chart description into a validated
//     [config.Config].
//  2. Layout: resolve the items font, measure the chart and draw it onto a
//     recording canvas.
//  3. Render: serialize the frozen canvas to every requested format. Formats
//     are produced concurrently since they only read the canvas.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  data,
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// [Runner.Prepare] runs the first two stages only, which is what the layout
// inspector needs.
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/barh/pkg/config"
	"github.com/matzehuels/barh/pkg/core/canvas"
	"github.com/matzehuels/barh/pkg/core/layout"
	"github.com/matzehuels/barh/pkg/errors"
	"github.com/matzehuels/barh/pkg/fonts"
)

// DefaultScale is the PNG zoom factor used when none is given.
const DefaultScale = 1.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ContentTypes maps output formats to their MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Input. Config takes precedence over Source when both are set.
	Source       []byte         `json:"-"`
	SourceFormat config.Format  `json:"source_format,omitempty"`
	Config       *config.Config `json:"-"`

	// Layout options
	Debug      bool    `json:"debug,omitempty"`       // draw debug outlines; ORed with the config's debug field
	FontFamily string  `json:"font_family,omitempty"` // overrides items_font.family
	FontSize   float64 `json:"font_size,omitempty"`   // overrides items_font.size

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	NoComment bool     `json:"no_comment,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Config is the parsed chart description.
	Config *config.Config

	// Layout is the measured geometry of the chart.
	Layout layout.Measurement

	// Canvas holds the drawn primitives. It is frozen.
	Canvas *canvas.Canvas

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items      int
	Elements   int
	Width      int
	Height     int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks that there is something to parse.
func (o *Options) ValidateForParse() error {
	if o.Config == nil && len(o.Source) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "source or config is required")
	}
	if o.SourceFormat == "" {
		o.SourceFormat = config.FormatJSON
	}
	if _, err := config.ParseFormat(string(o.SourceFormat)); err != nil {
		return err
	}
	o.setLogger()
	return nil
}

// ValidateForLayout checks the font overrides.
func (o *Options) ValidateForLayout() error {
	if o.FontSize < 0 || math.IsNaN(o.FontSize) || o.FontSize > fonts.MaxSize {
		return errors.New(errors.ErrCodeInvalidInput, "font size must be a positive number up to %d, got %v", fonts.MaxSize, o.FontSize)
	}
	o.setLogger()
	return nil
}

// ValidateForRender validates formats and sets render defaults. Duplicate
// formats are dropped.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)

	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be a positive number, got %v", o.Scale)
	}
	o.setLogger()
	return nil
}

// Font returns the font to measure with: the config's items_font with the
// option overrides applied.
func (o *Options) Font(cfg *config.Config) config.FontSpec {
	spec := cfg.ItemsFont
	if o.FontFamily != "" {
		spec.Family = o.FontFamily
	}
	if o.FontSize != 0 {
		spec.Size = o.FontSize
	}
	return spec
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
