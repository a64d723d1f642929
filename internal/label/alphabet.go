package label

import (
	"errors"
	"fmt"
	"strings"
)

// Alphabet settings understood by Choose
const (
	SettingOptimal   = "optimal"
	SettingNumeric   = "numeric"
	SettingAlpha     = "alpha"
	SettingLongAlpha = "longalpha"
)

// Preset symbol sequences. The letter sets leave out "w" on purpose so the
// lower and upper halves of LongAlpha stay 25 symbols each.
const (
	Numeric   Alphabet = "0123456789"
	Alpha     Alphabet = "abcdefghijklmnopqrstuvxyz"
	LongAlpha Alphabet = Alpha + "ABCDEFGHIJKLMNOPQRSTUVXYZ"
)

var (
	// ErrShortAlphabet is returned for alphabets with fewer than two symbols
	ErrShortAlphabet = errors.New("alphabet needs at least two symbols")
	// ErrDuplicateSymbol is returned when a symbol appears twice
	ErrDuplicateSymbol = errors.New("alphabet symbols must be distinct")
	// ErrBadSymbol is returned for symbols other than ASCII letters and digits
	ErrBadSymbol = errors.New("alphabet symbols must be letters or digits")
)

// Alphabet is an ordered sequence of distinct single-byte symbols.
// The symbol at position 0 is the zero-equivalent.
type Alphabet string

// Base returns the numeral base of the alphabet
func (a Alphabet) Base() int {
	return len(a)
}

// Zero returns the zero-equivalent symbol
func (a Alphabet) Zero() byte {
	return a[0]
}

// Index returns the position of symbol c, or -1 if it is not part of the alphabet
func (a Alphabet) Index(c byte) int {
	return strings.IndexByte(string(a), c)
}

// Validate checks the alphabet can be used as a numeral system
func (a Alphabet) Validate() error {
	if len(a) < 2 {
		return fmt.Errorf("%w: %q", ErrShortAlphabet, string(a))
	}
	var seen [256]bool
	for i := 0; i < len(a); i++ {
		if !isSymbol(a[i]) {
			return fmt.Errorf("%w: %q contains %q", ErrBadSymbol, string(a), a[i])
		}
		if seen[a[i]] {
			return fmt.Errorf("%w: %q repeats %q", ErrDuplicateSymbol, string(a), a[i])
		}
		seen[a[i]] = true
	}
	return nil
}

// isSymbol reports whether c can be typed as a label character
func isSymbol(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// Choose resolves an alphabet setting for n candidates.
//
// Under the optimal setting, 50 to 99 candidates get decimal labels even
// though the long alphabet would still fit them in two digits.
func Choose(setting string, n int) (Alphabet, bool, error) {
	switch setting {
	case SettingOptimal, "":
		var a Alphabet
		switch {
		case n < 10:
			a = Numeric
		case n < 50:
			a = LongAlpha
		case n > 99:
			a = Alpha
		default:
			a = Numeric
		}
		return a, a.Zero() == '0', nil
	case SettingNumeric:
		return Numeric, true, nil
	case SettingAlpha:
		return Alpha, false, nil
	case SettingLongAlpha:
		return LongAlpha, false, nil
	}

	a := Alphabet(setting)
	if err := a.Validate(); err != nil {
		return "", false, err
	}
	return a, false, nil
}
