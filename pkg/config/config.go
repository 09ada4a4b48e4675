// Package config describes a bar chart and decodes it from JSON, TOML or YAML.
//
// A chart description lists the items to draw plus optional title, axis and
// font settings:
//
//	{
//	  "title": "Startup time",
//	  "items": [
//	    {"name": "alpha", "value": 42},
//	    {"name": "beta", "value": 142.5, "color": "red"}
//	  ],
//	  "hor_axis": {"title": "Milliseconds", "suffix": "ms"},
//	  "items_font": {"family": "DejaVu Sans", "size": 12}
//	}
//
// The same keys are accepted in TOML and YAML documents. Parsing validates
// the description, so a [Config] returned by [Parse] always has at least one
// item and only non-negative, finite values.
package config

// DefaultBarColor is used for items that do not specify a color.
const DefaultBarColor = "#3260cd"

// Item is a single bar.
type Item struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// HorAxis holds the optional settings of the value axis.
// Nil pointers and empty values mean "not set".
type HorAxis struct {
	Title    string    `json:"title,omitempty"`
	Suffix   string    `json:"suffix,omitempty"`
	MaxValue *float64  `json:"max_value,omitempty"`
	Ticks    []float64 `json:"ticks,omitempty"`
	Width    *int      `json:"width,omitempty"`
}

// FontSpec selects the font used for every text on the chart.
// An empty family or a zero size falls back to the default font.
type FontSpec struct {
	Family string  `json:"family,omitempty"`
	Size   float64 `json:"size,omitempty"`
}

// Config is a validated chart description.
type Config struct {
	Title     string   `json:"title,omitempty"`
	Items     []Item   `json:"items"`
	Debug     bool     `json:"debug,omitempty"`
	ItemsFont FontSpec `json:"items_font,omitempty"`
	HorAxis   *HorAxis `json:"hor_axis,omitempty"`
}

// Suffix returns the axis suffix, or "" when no axis options are set.
func (c *Config) Suffix() string {
	if c.HorAxis == nil {
		return ""
	}
	return c.HorAxis.Suffix
}

// AxisTitle returns the axis caption, or "" when no axis options are set.
func (c *Config) AxisTitle() string {
	if c.HorAxis == nil {
		return ""
	}
	return c.HorAxis.Title
}

// MaxItemValue returns the largest item value, or 0 for an empty config.
func (c *Config) MaxItemValue() float64 {
	var m float64
	for _, it := range c.Items {
		if it.Value > m {
			m = it.Value
		}
	}
	return m
}
