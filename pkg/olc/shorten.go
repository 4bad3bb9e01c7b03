package olc

import (
	"fmt"
	"math"
	"strings"
)

// shortenSafety is the largest fraction of a cell's resolution the reference
// may lie from the code centre for that cell's digits to be removed.
const shortenSafety = 0.3

// Shorten removes 4, 6 or 8 leading digits from a full code, using the
// reference location to decide how many can be dropped and still be
// recovered with RecoverNearest.
//
// The most aggressive safe shortening wins. Padded codes fail with
// ErrPadded. If the reference is too far from the code for any digits to be
// removed, the error wraps ErrNotCloseEnough.
func Shorten(code string, lat, lng float64) (string, error) {
	if err := CheckFull(code); err != nil {
		return "", err
	}
	if strings.IndexByte(code, Padding) >= 0 {
		return "", fmt.Errorf("%w: %q", ErrPadded, code)
	}
	code = strings.ToUpper(code)
	area, err := Decode(code)
	if err != nil {
		return "", err
	}

	lat, lng = clipLatitude(lat), normalizeLongitude(lng)
	centerLat, centerLng := area.Center()
	distance := math.Max(math.Abs(centerLat-lat), math.Abs(centerLng-lng))

	for i := len(pairResolutions) - 2; i >= 1; i-- {
		if distance < pairResolutions[i]*shortenSafety {
			return code[(i+1)*2:], nil
		}
	}
	return "", fmt.Errorf("%w: %q is %.6f degrees from (%v, %v)", ErrNotCloseEnough, code, distance, lat, lng)
}

// RecoverNearest returns the full code closest to the reference location
// that matches a short code. Missing leading digits are taken from the
// reference location, and the result is moved by one cell if that puts it
// nearer. Latitude is never moved outside [-90, 90].
//
// A full code is returned upper-cased and otherwise unchanged.
func RecoverNearest(code string, lat, lng float64) (string, error) {
	if err := CheckShort(code); err != nil {
		if CheckFull(code) == nil {
			return strings.ToUpper(code), nil
		}
		return "", fmt.Errorf("%w: %q", ErrNotShort, code)
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return "", fmt.Errorf("%w: reference (%v, %v) is not finite", ErrInvalidArgument, lat, lng)
	}

	lat, lng = clipLatitude(lat), normalizeLongitude(lng)
	code = strings.ToUpper(code)

	// Number of leading digits to take from the reference.
	padLen := SeparatorPosition - strings.IndexByte(code, Separator)
	// Size of the cell those digits describe, and its half.
	resolution := math.Pow(float64(encBase), float64(2-padLen/2))
	halfRes := resolution / 2

	prefix, err := Encode(lat, lng, PairCodeLength)
	if err != nil {
		return "", err
	}
	area, err := Decode(prefix[:padLen] + code)
	if err != nil {
		return "", err
	}

	centerLat, centerLng := area.Center()
	switch {
	case lat+halfRes < centerLat && centerLat-resolution >= -latMax:
		// More than half a cell north of the reference: use the cell south.
		centerLat -= resolution
	case lat-halfRes > centerLat && centerLat+resolution <= latMax:
		centerLat += resolution
	}
	switch {
	case lng+halfRes < centerLng:
		centerLng -= resolution
	case lng-halfRes > centerLng:
		centerLng += resolution
	}

	return Encode(centerLat, centerLng, area.Len)
}

// Contains reports whether the point lies inside the area of a full code.
// Invalid or short codes contain nothing.
func Contains(code string, lat, lng float64) bool {
	area, err := Decode(code)
	if err != nil {
		return false
	}
	return area.Contains(lat, lng)
}
