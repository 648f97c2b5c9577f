package media

import (
	"fmt"
	"strconv"
	"strings"
)

// Rational is a fraction used for time bases and aspect ratios.
type Rational struct {
	Num int
	Den int
}

// ParseRational parses "num/den" or a bare integer.
func ParseRational(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	num, den, found := strings.Cut(s, "/")
	if !found {
		den = "1"
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return Rational{}, fmt.Errorf("invalid rational %q", s)
	}
	d, err := strconv.Atoi(strings.TrimSpace(den))
	if err != nil || d == 0 {
		return Rational{}, fmt.Errorf("invalid rational %q", s)
	}
	return Rational{Num: n, Den: d}, nil
}

// Valid reports whether the rational has a non-zero denominator and a positive value.
func (r Rational) Valid() bool {
	return r.Den != 0 && r.Num > 0 && r.Den > 0
}

// Float64 returns the rational as a floating point value.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}
