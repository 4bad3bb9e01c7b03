package olc

import (
	"errors"
	"fmt"
	"strings"
)

// Check reports whether code is a syntactically valid plus code: a full code
// ("8FWC2345+G6"), a padded code ("8FWC0000+") or a short code ("2345+G6").
// The returned error wraps ErrInvalidCode and names the first problem found.
func Check(code string) error {
	n := len(code)
	if n < 2 {
		return fmt.Errorf("%w: too short", ErrInvalidCode)
	}
	firstSep, firstPad := -1, -1
	for i := 0; i < n; i++ {
		c := code[i]
		if firstPad != -1 {
			// Only more padding, then a final separator, may follow padding.
			switch c {
			case Padding:
				continue
			case Separator:
				if firstSep != -1 {
					return fmt.Errorf("%w: extra separator at %d", ErrInvalidCode, i)
				}
				if i != SeparatorPosition {
					return fmt.Errorf("%w: separator in illegal position %d", ErrInvalidCode, i)
				}
				firstSep = i
				if i == n-1 {
					continue
				}
			}
			return fmt.Errorf("%w: %q after padding at %d", ErrInvalidCode, c, i)
		}
		switch {
		case digitValue(c) >= 0:
			continue
		case c == Separator:
			if firstSep != -1 {
				return fmt.Errorf("%w: extra separator at %d", ErrInvalidCode, i)
			}
			if i > SeparatorPosition || i%2 == 1 {
				return fmt.Errorf("%w: separator in illegal position %d", ErrInvalidCode, i)
			}
			firstSep = i
		case c == Padding:
			if i == 0 {
				return fmt.Errorf("%w: starts with padding", ErrInvalidCode)
			}
			firstPad = i
		default:
			return fmt.Errorf("%w: invalid character %q at %d", ErrInvalidCode, c, i)
		}
	}
	if firstSep == -1 {
		return fmt.Errorf("%w: missing separator", ErrInvalidCode)
	}
	if n-firstSep-1 == 1 {
		return fmt.Errorf("%w: single character after separator", ErrInvalidCode)
	}
	if firstPad != -1 {
		if firstSep < SeparatorPosition {
			return fmt.Errorf("%w: short codes cannot be padded", ErrInvalidCode)
		}
		if firstPad%2 == 1 {
			return fmt.Errorf("%w: odd number of padding characters", ErrInvalidCode)
		}
	}
	return nil
}

// CheckShort returns nil if code is a valid short code. A valid full code
// yields ErrNotShort.
func CheckShort(code string) error {
	if err := Check(code); err != nil {
		return err
	}
	if i := strings.IndexByte(code, Separator); i < SeparatorPosition {
		return nil
	}
	return ErrNotShort
}

// CheckFull returns nil if code is a valid full code whose first pair
// decodes inside the legal latitude and longitude ranges. A valid short code
// yields ErrNotFull.
func CheckFull(code string) error {
	err := CheckShort(code)
	if err == nil {
		return fmt.Errorf("%w: %q is short", ErrNotFull, code)
	}
	if !errors.Is(err, ErrNotShort) {
		return err
	}
	if digitValue(code[0])*encBase >= latMax*2 {
		return fmt.Errorf("%w: latitude outside range", ErrInvalidCode)
	}
	if digitValue(code[1])*encBase >= lngMax*2 {
		return fmt.Errorf("%w: longitude outside range", ErrInvalidCode)
	}
	return nil
}

// IsValid reports whether code is a valid full, padded or short code.
func IsValid(code string) bool { return Check(code) == nil }

// IsShort reports whether code is a valid short code.
func IsShort(code string) bool { return CheckShort(code) == nil }

// IsFull reports whether code is a valid full code.
func IsFull(code string) bool { return CheckFull(code) == nil }

// StripCode removes the separator and padding, converts to upper case and
// truncates to MaxCodeLength digits. Decode never reads further than that.
func StripCode(code string) string {
	code = strings.Map(func(r rune) rune {
		if r == Separator || r == Padding {
			return -1
		}
		if 'a' <= r && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}, code)
	if len(code) > MaxCodeLength {
		return code[:MaxCodeLength]
	}
	return code
}
