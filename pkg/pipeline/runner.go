package pipeline

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jellydator/ttlcache/v3"

	"github.com/matzehuels/barh/pkg/config"
	"github.com/matzehuels/barh/pkg/core/canvas"
	"github.com/matzehuels/barh/pkg/core/layout"
	"github.com/matzehuels/barh/pkg/errors"
	"github.com/matzehuels/barh/pkg/fonts"
	"github.com/matzehuels/barh/pkg/observability"
)

// FontLoader resolves a font family at a size in points.
type FontLoader func(family string, size float64) (layout.FontMetrics, error)

// LoadFont is the default FontLoader, backed by the installed fonts.
func LoadFont(family string, size float64) (layout.FontMetrics, error) {
	m, err := fonts.Load(family, size)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NamedFonts wraps load so that it only resolves family names. Font file
// names and paths are rejected with INVALID_INPUT. A nil load uses LoadFont.
func NamedFonts(load FontLoader) FontLoader {
	if load == nil {
		load = LoadFont
	}
	return func(family string, size float64) (layout.FontMetrics, error) {
		if fonts.IsFile(family) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "font family %q must be a name, not a file", family)
		}
		return load(family, size)
	}
}

// DefaultFontCacheSize is the number of loaded fonts a Runner keeps.
const DefaultFontCacheSize = 32

type fontKey struct {
	family string
	size   float64
}

// fontSizeKey rounds size to a tenth of a point. Sizes closer than that
// share one loaded font.
func fontSizeKey(size float64) float64 {
	return math.Round(size*10) / 10
}

// Runner encapsulates pipeline execution.
//
// Loaded fonts are cached, so a long-running server parses each font file
// once. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Logger *log.Logger
	Fonts  FontLoader

	// FontCacheSize caps the cached fonts; the least recently used one is
	// dropped first. Zero means DefaultFontCacheSize.
	FontCacheSize int

	mu    sync.Mutex
	fonts *ttlcache.Cache[fontKey, layout.FontMetrics]
}

// NewRunner creates a runner that loads fonts from the system.
// If logger is nil, the default logger is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger, Fonts: LoadFont}
}

// Execute runs the complete parse → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result, err := r.Prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Stage 3: Render
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, err := Render(ctx, result.Canvas, &result.Layout, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Prepare runs the parse and layout stages. The returned result carries the
// measured layout and the frozen canvas but no artifacts.
func (r *Runner) Prepare(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForParse(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hooks := observability.Pipeline()
	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Parse
	label := string(opts.SourceFormat)
	if opts.Config != nil {
		label = ""
	}
	hooks.OnParseStart(ctx, label)
	parseStart := time.Now()
	cfg, err := Parse(opts)
	result.Stats.ParseTime = time.Since(parseStart)
	items := 0
	if cfg != nil {
		items = len(cfg.Items)
	}
	hooks.OnParseComplete(ctx, label, items, result.Stats.ParseTime, err)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Config = cfg
	result.Stats.Items = items

	opts.Logger.Debug("parsed chart",
		"items", items,
		"title", cfg.Title,
		"duration", result.Stats.ParseTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Layout
	hooks.OnLayoutStart(ctx, items)
	layoutStart := time.Now()
	m, c, err := r.layout(cfg, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, 0, result.Stats.LayoutTime, err)
		return nil, fmt.Errorf("layout: %w", err)
	}
	size := c.Size()
	hooks.OnLayoutComplete(ctx, size.W, size.H, result.Stats.LayoutTime, nil)

	result.Layout = m
	result.Canvas = c
	result.Stats.Width = size.W
	result.Stats.Height = size.H
	result.Stats.Elements = c.Len()

	if result.Layout.Overflow {
		opts.Logger.Warn("items exceed the axis maximum, bars extend past the last tick",
			"max_value", result.Layout.Ceiling,
			"largest", cfg.MaxItemValue())
	}
	opts.Logger.Info("computed layout",
		"width", size.W,
		"height", size.H,
		"ceiling", result.Layout.Ceiling,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

func (r *Runner) layout(cfg *config.Config, opts Options) (layout.Measurement, *canvas.Canvas, error) {
	fm, err := r.font(opts.Font(cfg))
	if err != nil {
		return layout.Measurement{}, nil, err
	}
	opts.Logger.Debug("loaded font", "family", fm.Family(), "line_height", fm.LineHeight())
	return Layout(cfg, fm, opts.Debug || cfg.Debug)
}

// font returns cached metrics for spec, loading them on first use.
func (r *Runner) font(spec config.FontSpec) (layout.FontMetrics, error) {
	load := r.Fonts
	if load == nil {
		load = LoadFont
	}
	key := fontKey{family: spec.Family, size: fontSizeKey(spec.Size)}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fonts == nil {
		size := r.FontCacheSize
		if size <= 0 {
			size = DefaultFontCacheSize
		}
		r.fonts = ttlcache.New[fontKey, layout.FontMetrics](
			ttlcache.WithCapacity[fontKey, layout.FontMetrics](uint64(size)),
		)
	}
	if item := r.fonts.Get(key); item != nil {
		return item.Value(), nil
	}
	fm, err := load(key.family, key.size)
	if err != nil {
		return nil, err
	}
	r.fonts.Set(key, fm, ttlcache.NoTTL)
	return fm, nil
}

// CachedFonts returns the number of fonts currently cached.
func (r *Runner) CachedFonts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fonts == nil {
		return 0
	}
	return r.fonts.Len()
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
