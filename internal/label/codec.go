// Package label converts element indices to typeable hint labels and back.
package label

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyLabel is returned when decoding an empty string
	ErrEmptyLabel = errors.New("empty label")
	// ErrUnknownSymbol is returned when a label holds a symbol outside the alphabet
	ErrUnknownSymbol = errors.New("symbol not in alphabet")
	// ErrReservedLabel is returned for the all-zero label of a one-based alphabet
	ErrReservedLabel = errors.New("label is reserved")
)

// Codec maps zero-based indices to fixed-width labels over an alphabet
type Codec struct {
	alphabet Alphabet
	digits   int
	fromOne  bool
}

// NewCodec creates a codec sized for count labels
func NewCodec(a Alphabet, count int, fromOne bool) (*Codec, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &Codec{
		alphabet: a,
		digits:   Digits(a.Base(), count, fromOne),
		fromOne:  fromOne,
	}, nil
}

// ForSetting chooses the alphabet for setting and count and returns its codec
func ForSetting(setting string, count int) (*Codec, error) {
	a, fromOne, err := Choose(setting, count)
	if err != nil {
		return nil, fmt.Errorf("invalid alphabet setting: %w", err)
	}
	return NewCodec(a, count, fromOne)
}

// Digits returns the label width needed for count labels in base.
// One-based alphabets never use the all-zero label, so they need room for count+1 values.
func Digits(base, count int, fromOne bool) int {
	if count <= 0 || base < 2 {
		return 0
	}
	need := count
	if fromOne {
		need++
	}
	d, capacity := 1, base
	for capacity < need {
		d++
		capacity *= base
	}
	return d
}

// Alphabet returns the codec's alphabet
func (c *Codec) Alphabet() Alphabet { return c.alphabet }

// Base returns the numeral base
func (c *Codec) Base() int { return c.alphabet.Base() }

// LabelDigits returns the padded label width
func (c *Codec) LabelDigits() int { return c.digits }

// CountsFromOne reports whether index 0 is rendered as the value 1
func (c *Codec) CountsFromOne() bool { return c.fromOne }

// Encode returns the label for index i
func (c *Codec) Encode(i int) string {
	v := i
	if c.fromOne {
		v++
	}
	base := c.alphabet.Base()

	var buf []byte
	if v == 0 {
		buf = append(buf, c.alphabet.Zero())
	}
	for v > 0 {
		buf = append(buf, c.alphabet[v%base])
		v /= base
	}
	for len(buf) < c.digits {
		buf = append(buf, c.alphabet.Zero())
	}

	// most significant symbol first
	for l, r := 0, len(buf)-1; l < r; l, r = l+1, r-1 {
		buf[l], buf[r] = buf[r], buf[l]
	}
	return string(buf)
}

// Decode returns the index a label stands for
func (c *Codec) Decode(s string) (int, error) {
	if s == "" {
		return 0, ErrEmptyLabel
	}
	base := c.alphabet.Base()
	v, power := 0, 1
	for i := len(s) - 1; i >= 0; i-- {
		pos := c.alphabet.Index(s[i])
		if pos < 0 {
			return 0, fmt.Errorf("%w: %q in %q", ErrUnknownSymbol, s[i], s)
		}
		v += pos * power
		power *= base
	}
	if c.fromOne {
		if v == 0 {
			return 0, fmt.Errorf("%w: %q", ErrReservedLabel, s)
		}
		v--
	}
	return v, nil
}

// Labels encodes indices 0..n-1
func (c *Codec) Labels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = c.Encode(i)
	}
	return labels
}
