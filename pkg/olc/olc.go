package olc

import (
	"errors"
	"math"
)

const (
	// Alphabet is the set of digits used in plus codes, in value order.
	Alphabet = "23456789CFGHJMPQRVWX"
	// Separator marks the end of the first eight digits.
	Separator = '+'
	// Padding fills unused digit slots before the separator.
	Padding = '0'

	// SeparatorPosition is the index of the separator in a full code.
	SeparatorPosition = 8
	// PairCodeLength is the number of digits encoded as lat/lng pairs.
	PairCodeLength = 10
	// MaxCodeLength is the maximum number of significant digits.
	MaxCodeLength = 15
	// DefaultCodeLength gives a cell of roughly 14x14 metres.
	DefaultCodeLength = 10

	encBase  = len(Alphabet)
	gridCols = 4
	gridRows = 5

	gridCodeLength = MaxCodeLength - PairCodeLength

	latMax = 90
	lngMax = 180

	// Place value of the first pair when the last pair is 1.
	pairFirstPlaceValue = 160000 // encBase^(pairs-1)
	// Pair section precision, in units per degree.
	pairPrecision = 8000

	gridLatFullValue = 3125 // gridRows^gridCodeLength
	gridLngFullValue = 1024 // gridCols^gridCodeLength

	gridLatFirstPlaceValue = gridLatFullValue / gridRows
	gridLngFirstPlaceValue = gridLngFullValue / gridCols

	// Integer units per degree at MaxCodeLength.
	finalLatPrecision = pairPrecision * gridLatFullValue
	finalLngPrecision = pairPrecision * gridLngFullValue
)

// pairResolutions holds the cell size in degrees after each pair.
var pairResolutions = [...]float64{20.0, 1.0, .05, .0025, .000125}

var (
	// ErrInvalidArgument is returned for an illegal code length or a
	// non-finite coordinate.
	ErrInvalidArgument = errors.New("olc: invalid argument")
	// ErrInvalidCode is returned when a string is not a syntactically valid code.
	ErrInvalidCode = errors.New("olc: invalid code")
	// ErrNotFull is returned when an operation needs a full code.
	ErrNotFull = errors.New("olc: not a full code")
	// ErrNotShort is returned when recovery is given a code that is neither
	// short nor full.
	ErrNotShort = errors.New("olc: not a short code")
	// ErrPadded is returned when shortening a padded code.
	ErrPadded = errors.New("olc: cannot shorten padded code")
	// ErrNotCloseEnough is returned by Shorten when the reference location is
	// too far from the code to remove any digits safely.
	ErrNotCloseEnough = errors.New("olc: reference location too far to shorten")
)

// decodeTable maps an ASCII byte to its digit value, or -1.
var decodeTable [128]int8

func init() {
	for i := range decodeTable {
		decodeTable[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		c := Alphabet[i]
		decodeTable[c] = int8(i)
		if c >= 'A' && c <= 'Z' {
			decodeTable[c+'a'-'A'] = int8(i)
		}
	}
}

// digitValue returns the value of an alphabet byte, or -1.
func digitValue(c byte) int {
	if c >= 128 {
		return -1
	}
	return int(decodeTable[c])
}

// CodeArea is the rectangle represented by a code.
//
// LatLo/LngLo are the south-west corner, LatHi/LngHi the north-east corner.
// Len is the number of significant digits that were decoded.
type CodeArea struct {
	LatLo, LngLo, LatHi, LngHi float64
	Len                        int
}

// Center returns the midpoint of the area.
func (area CodeArea) Center() (lat, lng float64) {
	return math.Min(area.LatLo+(area.LatHi-area.LatLo)/2, latMax),
		math.Min(area.LngLo+(area.LngHi-area.LngLo)/2, lngMax)
}

// Height returns the latitude extent of the area in degrees.
func (area CodeArea) Height() float64 {
	latUnits, _ := cellUnits(area.Len)
	return float64(latUnits) / finalLatPrecision
}

// Width returns the longitude extent of the area in degrees.
func (area CodeArea) Width() float64 {
	_, lngUnits := cellUnits(area.Len)
	return float64(lngUnits) / finalLngPrecision
}

// Contains reports whether the point lies inside the area. The south and west
// edges are inclusive, the north and east edges exclusive.
func (area CodeArea) Contains(lat, lng float64) bool {
	return area.LatLo <= lat && lat < area.LatHi &&
		area.LngLo <= lng && lng < area.LngHi
}

// cellUnits returns the cell height and width, in final-precision integer
// units, of a code with codeLen significant digits.
func cellUnits(codeLen int) (lat, lng int64) {
	if codeLen <= PairCodeLength {
		pv := int64(pairFirstPlaceValue)
		for i := 2; i < codeLen; i += 2 {
			pv /= int64(encBase)
		}
		return pv * gridLatFullValue, pv * gridLngFullValue
	}
	lat, lng = gridLatFullValue, gridLngFullValue
	for i := PairCodeLength; i < codeLen && i < MaxCodeLength; i++ {
		lat /= gridRows
		lng /= gridCols
	}
	return lat, lng
}

// latitudePrecision returns the cell height in degrees for a code length.
func latitudePrecision(codeLen int) float64 {
	if codeLen <= PairCodeLength {
		return math.Pow(float64(encBase), float64(2-codeLen/2))
	}
	return math.Pow(float64(encBase), -3) / math.Pow(gridRows, float64(codeLen-PairCodeLength))
}

func clipLatitude(lat float64) float64 {
	return math.Min(latMax, math.Max(-latMax, lat))
}

// normalizeLongitude maps a longitude into [-180, 180).
func normalizeLongitude(lng float64) float64 {
	if lng >= -lngMax && lng < lngMax {
		return lng
	}
	lng = math.Mod(lng+lngMax, 2*lngMax)
	if lng < 0 {
		lng += 2 * lngMax
	}
	return lng - lngMax
}
