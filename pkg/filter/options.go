package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/user/chromakey/pkg/media"
)

// OptionType selects how an option value is parsed.
type OptionType int

const (
	OptionInt OptionType = iota
	OptionFloat
	OptionBool
	OptionString
	OptionRational
	OptionPixelFormat
	OptionPixelFormats
	OptionColor
)

// Option declares one named parameter of a stage kind.
type Option struct {
	Name    string
	Type    OptionType
	Default string
	Min     float64
	Max     float64
	Help    string
}

// Values holds the parsed, typed options of one stage.
type Values map[string]any

// Int returns an integer option.
func (v Values) Int(name string) int {
	i, _ := v[name].(int)
	return i
}

// Float returns a float option.
func (v Values) Float(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

// Bool returns a boolean option.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Rational returns a rational option.
func (v Values) Rational(name string) media.Rational {
	r, _ := v[name].(media.Rational)
	return r
}

// PixelFormat returns a pixel format option, or PixelFormatNone when unset.
func (v Values) PixelFormat(name string) media.PixelFormat {
	if f, ok := v[name].(media.PixelFormat); ok {
		return f
	}
	return media.PixelFormatNone
}

// PixelFormats returns a pixel format list option.
func (v Values) PixelFormats(name string) []media.PixelFormat {
	f, _ := v[name].([]media.PixelFormat)
	return f
}

// Color returns a color option.
func (v Values) Color(name string) RGBA {
	c, _ := v[name].(RGBA)
	return c
}

// Has reports whether the option has a value, explicit or default.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// splitArgs splits "a=1:b=2" into its key=value and positional segments.
func splitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	return strings.FieldsFunc(args, func(r rune) bool { return r == ':' || r == ';' })
}

// parseOptions parses args against the declared options. Leading values
// without a key are assigned to options in declaration order.
func parseOptions(opts []Option, args string) (Values, error) {
	raw := map[string]string{}
	positional := true
	for i, seg := range splitArgs(args) {
		key, value, found := strings.Cut(seg, "=")
		if !found {
			if !positional {
				return nil, fmt.Errorf("positional value %q after named options", seg)
			}
			if i >= len(opts) {
				return nil, fmt.Errorf("too many positional values at %q", seg)
			}
			key, value = opts[i].Name, seg
		} else {
			positional = false
		}
		key = strings.TrimSpace(key)
		if findOption(opts, key) == nil {
			return nil, fmt.Errorf("option %q not found", key)
		}
		if _, dup := raw[key]; dup {
			return nil, fmt.Errorf("option %q given more than once", key)
		}
		raw[key] = value
	}

	vals := Values{}
	for _, opt := range opts {
		s, ok := raw[opt.Name]
		if !ok {
			if opt.Default == "" {
				continue
			}
			s = opt.Default
		}
		v, err := parseValue(opt, s)
		if err != nil {
			return nil, err
		}
		vals[opt.Name] = v
	}
	return vals, nil
}

func findOption(opts []Option, name string) *Option {
	for i := range opts {
		if opts[i].Name == name {
			return &opts[i]
		}
	}
	return nil
}

func parseValue(opt Option, s string) (any, error) {
	switch opt.Type {
	case OptionInt:
		i, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for option %q", s, opt.Name)
		}
		if err := checkRange(opt, float64(i)); err != nil {
			return nil, err
		}
		return i, nil

	case OptionFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for option %q", s, opt.Name)
		}
		if err := checkRange(opt, f); err != nil {
			return nil, err
		}
		return f, nil

	case OptionBool:
		switch strings.ToLower(s) {
		case "1", "true", "yes", "on":
			return true, nil
		case "0", "false", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("invalid value %q for option %q", s, opt.Name)

	case OptionRational:
		r, err := media.ParseRational(s)
		if err != nil || !r.Valid() {
			return nil, fmt.Errorf("invalid value %q for option %q", s, opt.Name)
		}
		return r, nil

	case OptionPixelFormat:
		f := media.PixelFormatByName(s)
		if f == media.PixelFormatNone {
			return nil, fmt.Errorf("invalid pixel format %q for option %q", s, opt.Name)
		}
		return f, nil

	case OptionPixelFormats:
		var list []media.PixelFormat
		for _, name := range strings.Split(s, "|") {
			f := media.PixelFormatByName(strings.TrimSpace(name))
			if f == media.PixelFormatNone {
				return nil, fmt.Errorf("invalid pixel format %q for option %q", name, opt.Name)
			}
			list = append(list, f)
		}
		return list, nil

	case OptionColor:
		c, err := ParseColor(s)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q for option %q: %v", s, opt.Name, err)
		}
		return c, nil
	}
	return s, nil
}

func checkRange(opt Option, v float64) error {
	if opt.Min == 0 && opt.Max == 0 {
		return nil
	}
	if v < opt.Min || v > opt.Max {
		return fmt.Errorf("value %v for option %q out of range [%v - %v]", v, opt.Name, opt.Min, opt.Max)
	}
	return nil
}
