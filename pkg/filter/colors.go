package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// RGBA is an 8-bit color with alpha.
type RGBA struct {
	R, G, B, A uint8
}

func (c RGBA) String() string {
	return fmt.Sprintf("0x%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// colorNames holds the named colors accepted by ParseColor (CSS/X11 values).
var colorNames = map[string][3]uint8{
	"aqua":        {0x00, 0xFF, 0xFF},
	"aquamarine":  {0x7F, 0xFF, 0xD4},
	"beige":       {0xF5, 0xF5, 0xDC},
	"black":       {0x00, 0x00, 0x00},
	"blue":        {0x00, 0x00, 0xFF},
	"brown":       {0xA5, 0x2A, 0x2A},
	"chartreuse":  {0x7F, 0xFF, 0x00},
	"coral":       {0xFF, 0x7F, 0x50},
	"crimson":     {0xDC, 0x14, 0x3C},
	"cyan":        {0x00, 0xFF, 0xFF},
	"darkblue":    {0x00, 0x00, 0x8B},
	"darkgreen":   {0x00, 0x64, 0x00},
	"darkgray":    {0xA9, 0xA9, 0xA9},
	"darkred":     {0x8B, 0x00, 0x00},
	"forestgreen": {0x22, 0x8B, 0x22},
	"fuchsia":     {0xFF, 0x00, 0xFF},
	"gold":        {0xFF, 0xD7, 0x00},
	"gray":        {0x80, 0x80, 0x80},
	"green":       {0x00, 0x80, 0x00},
	"greenyellow": {0xAD, 0xFF, 0x2F},
	"grey":        {0x80, 0x80, 0x80},
	"indigo":      {0x4B, 0x00, 0x82},
	"lightblue":   {0xAD, 0xD8, 0xE6},
	"lightgreen":  {0x90, 0xEE, 0x90},
	"lightgray":   {0xD3, 0xD3, 0xD3},
	"lime":        {0x00, 0xFF, 0x00},
	"limegreen":   {0x32, 0xCD, 0x32},
	"magenta":     {0xFF, 0x00, 0xFF},
	"maroon":      {0x80, 0x00, 0x00},
	"navy":        {0x00, 0x00, 0x80},
	"olive":       {0x80, 0x80, 0x00},
	"orange":      {0xFF, 0xA5, 0x00},
	"pink":        {0xFF, 0xC0, 0xCB},
	"purple":      {0x80, 0x00, 0x80},
	"red":         {0xFF, 0x00, 0x00},
	"silver":      {0xC0, 0xC0, 0xC0},
	"springgreen": {0x00, 0xFF, 0x7F},
	"teal":        {0x00, 0x80, 0x80},
	"violet":      {0xEE, 0x82, 0xEE},
	"white":       {0xFF, 0xFF, 0xFF},
	"yellow":      {0xFF, 0xFF, 0x00},
	"yellowgreen": {0x9A, 0xCD, 0x32},
}

// ParseColor parses a color name or a hex color ("0xRRGGBB[AA]",
// "#RRGGBB[AA]" or bare "RRGGBB[AA]"). An "@alpha" suffix sets the alpha
// as a float in [0, 1] or a hex byte.
func ParseColor(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	body, alpha, hasAlpha := strings.Cut(s, "@")
	if body == "" {
		return RGBA{}, fmt.Errorf("empty color")
	}

	c, err := parseColorBody(body)
	if err != nil {
		return RGBA{}, err
	}

	if hasAlpha {
		a, err := parseAlpha(alpha)
		if err != nil {
			return RGBA{}, err
		}
		c.A = a
	}
	return c, nil
}

func parseColorBody(body string) (RGBA, error) {
	if rgb, ok := colorNames[strings.ToLower(body)]; ok {
		return RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF}, nil
	}

	hex := body
	switch {
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	case strings.HasPrefix(hex, "#"):
		hex = hex[1:]
	}
	if len(hex) != 6 && len(hex) != 8 {
		return RGBA{}, fmt.Errorf("cannot find color %q", body)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("cannot find color %q", body)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xFF
	}
	return RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func parseAlpha(s string) (uint8, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid alpha %q", s)
		}
		return uint8(v), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > 1 {
		return 0, fmt.Errorf("invalid alpha %q", s)
	}
	return uint8(f*255 + 0.5), nil
}
