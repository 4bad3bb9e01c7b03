package olc

import (
	"fmt"
	"math"
)

// Encode returns the plus code of the given length for a location.
//
// lat is clipped to [-90, 90] and lng normalised to [-180, 180). codeLen is
// the number of significant digits: at least 2, even when below 10, and
// capped at MaxCodeLength. Lengths below 8 are padded up to the separator.
// The default length of 10 gives a cell of roughly 14x14 metres; 11 or 12 is
// the practical limit for useful codes.
func Encode(lat, lng float64, codeLen int) (string, error) {
	if err := CheckCodeLength(codeLen); err != nil {
		return "", err
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return "", fmt.Errorf("%w: coordinate (%v, %v) is not finite", ErrInvalidArgument, lat, lng)
	}
	codeLen = min(codeLen, MaxCodeLength)

	lat = clipLatitude(lat)
	lng = normalizeLongitude(lng)
	// Latitude 90 belongs to no cell; move it into the topmost one.
	if lat == latMax {
		lat -= latitudePrecision(codeLen)
	}
	return encodeIntegers(latitudeAsInteger(lat), longitudeAsInteger(lng), codeLen), nil
}

// CheckCodeLength reports whether Encode accepts a code length. Lengths
// above MaxCodeLength are accepted and capped by Encode.
func CheckCodeLength(codeLen int) error {
	if codeLen < 2 || (codeLen < PairCodeLength && codeLen%2 == 1) {
		return fmt.Errorf("%w: code length %d", ErrInvalidArgument, codeLen)
	}
	return nil
}

// EncodeDefault encodes a location with DefaultCodeLength digits.
func EncodeDefault(lat, lng float64) (string, error) {
	return Encode(lat, lng, DefaultCodeLength)
}

// latitudeAsInteger converts a clipped latitude into final-precision units
// counted from the south pole, in [0, 180*finalLatPrecision).
func latitudeAsInteger(lat float64) int64 {
	v := toUnits(lat+latMax, finalLatPrecision)
	if v < 0 {
		return 0
	}
	if v >= 2*latMax*finalLatPrecision {
		return 2*latMax*finalLatPrecision - 1
	}
	return v
}

// longitudeAsInteger converts a normalised longitude into final-precision
// units counted from the antimeridian, in [0, 360*finalLngPrecision).
func longitudeAsInteger(lng float64) int64 {
	const full = 2 * lngMax * finalLngPrecision
	v := toUnits(lng+lngMax, finalLngPrecision) % full
	if v < 0 {
		v += full
	}
	return v
}

// toUnits scales degrees to integer units. The product is rounded to six
// decimal places before truncation so that representation error in values
// such as 1.2*25e6 does not drop a unit.
func toUnits(deg float64, precision int64) int64 {
	return int64(math.Floor(math.Round(deg*float64(precision)*1e6) / 1e6))
}

// encodeIntegers builds the code from final-precision integer coordinates.
func encodeIntegers(latVal, lngVal int64, codeLen int) string {
	var code [MaxCodeLength + 1]byte
	code[SeparatorPosition] = Separator

	if codeLen > PairCodeLength {
		// Grid digits, least significant first, after the separator and the
		// fifth pair.
		for i := gridCodeLength; i >= 1; i-- {
			latDigit := latVal % gridRows
			lngDigit := lngVal % gridCols
			code[SeparatorPosition+2+i] = Alphabet[latDigit*gridCols+lngDigit]
			latVal /= gridRows
			lngVal /= gridCols
		}
	} else {
		latVal /= gridLatFullValue
		lngVal /= gridLngFullValue
	}

	// The fifth pair sits after the separator.
	code[SeparatorPosition+1] = Alphabet[latVal%int64(encBase)]
	code[SeparatorPosition+2] = Alphabet[lngVal%int64(encBase)]
	latVal /= int64(encBase)
	lngVal /= int64(encBase)
	for i := SeparatorPosition - 2; i >= 0; i -= 2 {
		code[i] = Alphabet[latVal%int64(encBase)]
		code[i+1] = Alphabet[lngVal%int64(encBase)]
		latVal /= int64(encBase)
		lngVal /= int64(encBase)
	}

	if codeLen >= SeparatorPosition {
		return string(code[:codeLen+1])
	}
	for i := codeLen; i < SeparatorPosition; i++ {
		code[i] = Padding
	}
	return string(code[:SeparatorPosition+1])
}
