package olc

// Decode returns the area represented by a full code.
//
// Digits beyond MaxCodeLength are accepted but ignored. Codes that are not
// full fail with an error wrapping ErrNotFull or ErrInvalidCode.
func Decode(code string) (CodeArea, error) {
	if err := CheckFull(code); err != nil {
		return CodeArea{}, err
	}
	code = StripCode(code)

	// Both axes are accumulated as integers at the final precision.
	var latVal, lngVal int64

	pairDigits := min(len(code), PairCodeLength)
	pv := int64(pairFirstPlaceValue)
	for i := 0; i+1 < pairDigits; i += 2 {
		latVal += int64(digitValue(code[i])) * pv
		lngVal += int64(digitValue(code[i+1])) * pv
		pv /= int64(encBase)
	}
	latVal *= gridLatFullValue
	lngVal *= gridLngFullValue

	rowpv, colpv := int64(gridLatFirstPlaceValue), int64(gridLngFirstPlaceValue)
	for i := PairCodeLength; i < len(code); i++ {
		d := int64(digitValue(code[i]))
		latVal += d / gridCols * rowpv
		lngVal += d % gridCols * colpv
		rowpv /= gridRows
		colpv /= gridCols
	}

	latVal -= latMax * finalLatPrecision
	lngVal -= lngMax * finalLngPrecision
	latUnits, lngUnits := cellUnits(len(code))

	return CodeArea{
		LatLo: float64(latVal) / finalLatPrecision,
		LngLo: float64(lngVal) / finalLngPrecision,
		LatHi: float64(latVal+latUnits) / finalLatPrecision,
		LngHi: float64(lngVal+lngUnits) / finalLngPrecision,
		Len:   len(code),
	}, nil
}
