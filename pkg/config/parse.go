package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/barh/pkg/errors"
)

// Format identifies the encoding of a chart description.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Formats lists the accepted description encodings.
var Formats = []Format{FormatJSON, FormatTOML, FormatYAML}

// ParseFormat validates a format name as given on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatTOML, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown config format %q (valid: json, toml, yaml)", s)
	}
}

// FormatFromPath guesses the encoding from a file extension.
// Unknown extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and parses the description at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config")
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, FormatFromPath(path))
}

// Parse decodes data in the given format and validates the result.
func Parse(data []byte, format Format) (*Config, error) {
	switch format {
	case FormatJSON, "":
		return ParseJSON(data)
	case FormatTOML:
		return ParseTOML(data)
	case FormatYAML:
		return ParseYAML(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown config format %q", format)
	}
}

// ParseJSON decodes a JSON chart description.
func ParseJSON(data []byte) (*Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode json")
	}
	return FromDocument(doc)
}

// ParseTOML decodes a TOML chart description. Items are given as an array
// of tables:
//
//	title = "Startup time"
//
//	[[items]]
//	name = "alpha"
//	value = 42
func ParseTOML(data []byte) (*Config, error) {
	var doc map[string]any
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
	}
	return FromDocument(doc)
}

// ParseYAML decodes a YAML chart description.
func ParseYAML(data []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode yaml")
	}
	return FromDocument(doc)
}

// FromDocument builds a Config from an already decoded document tree, as
// produced by encoding/json, BurntSushi/toml or yaml.v3 decoding into any.
func FromDocument(doc any) (*Config, error) {
	root, ok := asMap(doc)
	if !ok {
		return nil, errItemsNotSet()
	}

	rawItems, ok := root["items"]
	if !ok {
		return nil, errItemsNotSet()
	}
	list, ok := asList(rawItems)
	if !ok {
		return nil, errInvalidType("/items", "Array")
	}
	if len(list) == 0 {
		return nil, errItemsNotSet()
	}

	cfg := &Config{}
	for i, raw := range list {
		item, err := parseItem(i, raw)
		if err != nil {
			return nil, err
		}
		cfg.Items = append(cfg.Items, item)
	}

	var err error
	if cfg.Title, err = optString(root, "title", "/title"); err != nil {
		return nil, err
	}
	if v, ok := root["debug"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, errInvalidType("/debug", "Bool")
		}
		cfg.Debug = b
	}
	if v, ok := root["items_font"]; ok {
		if cfg.ItemsFont, err = parseFont(v); err != nil {
			return nil, err
		}
	}
	if v, ok := root["hor_axis"]; ok {
		if cfg.HorAxis, err = parseHorAxis(v); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseItem(i int, raw any) (Item, error) {
	obj, ok := asMap(raw)
	if !ok {
		return Item{}, errInvalidType(fmt.Sprintf("/items/%d", i), "Object")
	}

	rawName, ok := obj["name"]
	if !ok {
		return Item{}, errors.New(errors.ErrCodeInvalidConfig, "item %d: name is not set", i)
	}
	name, ok := rawName.(string)
	if !ok {
		return Item{}, errInvalidType(fmt.Sprintf("/items/%d/name", i), "String")
	}

	rawValue, ok := obj["value"]
	if !ok {
		return Item{}, errors.New(errors.ErrCodeInvalidConfig, "item %d: value is not set", i)
	}
	value, ok := asNumber(rawValue)
	if !ok {
		return Item{}, errInvalidType(fmt.Sprintf("/items/%d/value", i), "Number")
	}

	color, err := optString(obj, "color", fmt.Sprintf("/items/%d/color", i))
	if err != nil {
		return Item{}, err
	}
	if color == "" {
		color = DefaultBarColor
	}

	return Item{Name: name, Value: value, Color: color}, nil
}

func parseFont(raw any) (FontSpec, error) {
	obj, ok := asMap(raw)
	if !ok {
		return FontSpec{}, errInvalidType("/items_font", "Map")
	}
	family, err := optString(obj, "family", "/items_font/family")
	if err != nil {
		return FontSpec{}, err
	}
	var size float64
	if v, ok := obj["size"]; ok {
		if size, ok = asNumber(v); !ok {
			return FontSpec{}, errInvalidType("/items_font/size", "Number")
		}
	}
	return FontSpec{Family: family, Size: size}, nil
}

func parseHorAxis(raw any) (*HorAxis, error) {
	obj, ok := asMap(raw)
	if !ok {
		return nil, errInvalidType("/hor_axis", "Map")
	}

	ha := &HorAxis{}
	var err error
	if ha.Title, err = optString(obj, "title", "/hor_axis/title"); err != nil {
		return nil, err
	}
	if ha.Suffix, err = optString(obj, "suffix", "/hor_axis/suffix"); err != nil {
		return nil, err
	}
	if v, ok := obj["max_value"]; ok {
		n, ok := asNumber(v)
		if !ok {
			return nil, errInvalidType("/hor_axis/max_value", "Number")
		}
		ha.MaxValue = &n
	}
	if v, ok := obj["ticks"]; ok {
		list, ok := asList(v)
		if !ok {
			return nil, errInvalidType("/hor_axis/ticks", "Array")
		}
		for i, t := range list {
			n, ok := asNumber(t)
			if !ok {
				return nil, errInvalidType(fmt.Sprintf("/hor_axis/ticks/%d", i), "Number")
			}
			ha.Ticks = append(ha.Ticks, n)
		}
	}
	if v, ok := obj["width"]; ok {
		n, ok := asNumber(v)
		if !ok || n != math.Trunc(n) || n < 0 || n > math.MaxInt32 {
			return nil, errInvalidType("/hor_axis/width", "Unsigned integer")
		}
		w := int(n)
		ha.Width = &w
	}
	return ha, nil
}

// Validate checks the invariants the layout engine relies on.
func (c *Config) Validate() error {
	if len(c.Items) == 0 {
		return errItemsNotSet()
	}
	for i, it := range c.Items {
		if math.IsNaN(it.Value) || math.IsInf(it.Value, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "item %d: value must be a finite number", i)
		}
		if it.Value < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "item %d: value must be positive", i)
		}
	}
	if c.ItemsFont.Size < 0 || math.IsNaN(c.ItemsFont.Size) || math.IsInf(c.ItemsFont.Size, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "items_font: size must be a positive number")
	}
	if ha := c.HorAxis; ha != nil {
		if mv := ha.MaxValue; mv != nil && (math.IsNaN(*mv) || math.IsInf(*mv, 0) || *mv <= 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "hor_axis: max_value must be a positive number")
		}
		for i, t := range ha.Ticks {
			if math.IsNaN(t) || math.IsInf(t, 0) {
				return errors.New(errors.ErrCodeInvalidConfig, "hor_axis: tick %d must be a finite number", i)
			}
		}
		if ha.Width != nil && *ha.Width <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "hor_axis: width must be positive")
		}
	}
	return nil
}

func errItemsNotSet() error {
	return errors.New(errors.ErrCodeInvalidConfig, "items is not set")
}

func errInvalidType(path, want string) error {
	return errors.New(errors.ErrCodeInvalidConfig, "invalid value type at %s: expected %s", path, want)
}

func optString(obj map[string]any, key, path string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errInvalidType(path, "String")
	}
	return s, nil
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// asList accepts both generic arrays and the []map[string]any that
// BurntSushi/toml produces for arrays of tables.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
