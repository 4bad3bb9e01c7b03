package olc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidity(t *testing.T) {
	tests := []struct {
		code                     string
		isValid, isShort, isFull bool
	}{
		// full codes
		{"8FWC2345+G6", true, false, true},
		{"8FWC2345+G6G", true, false, true},
		{"8fwc2345+", true, false, true},
		{"8FWCX400+", true, false, true},
		{"849VGJQF+VX7QR3J", true, false, true},
		{"849VGJQF+VX7QR3JW", true, false, true},
		// short codes
		{"WC2345+G6g", true, true, false},
		{"2345+G6", true, true, false},
		{"45+G6", true, true, false},
		{"+G6", true, true, false},
		// invalid
		{"", false, false, false},
		{"G+", false, false, false},
		{"+", false, false, false},
		{"8FWC2345+G", false, false, false},
		{"8FWC2_45+G6", false, false, false},
		{"8FWC2η45+G6", false, false, false},
		{"8FWC2345+G6+", false, false, false},
		{"8FWC2345G6+", false, false, false},
		{"8FWC2300+G6", false, false, false},
		{"WC2300+G6g", false, false, false},
		{"WC2345+G", false, false, false},
		{"WC2300+", false, false, false},
		{"8FWC23450+", false, false, false},
		{"8F0000000+", false, false, false},
		{"8FWC2345000+", false, false, false},
		{"8FWC00000+", false, false, false},
		{"849VGJQF+VX7QR3U", false, false, false},
		{"849VGJQF+VX7QR3JU", false, false, false},
		{"08FWC234+", false, false, false},
		{"8F0WC234+", false, false, false},
		{"8FWC2345", false, false, false},
		{"\xff\xfe+22", false, false, false},
		// structurally valid, but the first pair lies outside the globe
		{"F2222222+22", true, false, false},
		{"2W222222+22", true, false, false},
		{"C2222222+22", true, false, true},
		{"2V222222+22", true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.isValid, IsValid(tt.code), "IsValid")
			assert.Equal(t, tt.isShort, IsShort(tt.code), "IsShort")
			assert.Equal(t, tt.isFull, IsFull(tt.code), "IsFull")
		})
	}
}

func TestCheck_ReturnsInvalidCode(t *testing.T) {
	err := Check("8FWC2_45+G6")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Contains(t, err.Error(), "'_'")
}

func TestCheck_SeparatorAfterPaddingMustBeAtPositionEight(t *testing.T) {
	for _, code := range []string{"8FWC23450+", "8F0000000+", "8FWC2345000+", "8FWC00000+"} {
		t.Run(code, func(t *testing.T) {
			err := Check(code)
			require.ErrorIs(t, err, ErrInvalidCode)
			assert.Contains(t, err.Error(), "separator in illegal position")

			_, err = Decode(code)
			assert.ErrorIs(t, err, ErrInvalidCode)
		})
	}
	assert.NoError(t, Check("8F000000+"))
}

func TestCheckShort_FullCodeIsNotShort(t *testing.T) {
	assert.ErrorIs(t, CheckShort("8FWC2345+G6"), ErrNotShort)
}

func TestCheckFull_ShortCodeIsNotFull(t *testing.T) {
	err := CheckFull("2345+G6")
	assert.ErrorIs(t, err, ErrNotFull)
	assert.False(t, errors.Is(err, ErrInvalidCode))
}

func TestCheckFull_OutOfRange(t *testing.T) {
	err := CheckFull("F2222222+22")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")

	err = CheckFull("2W222222+22")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longitude")
}

func TestIsValid_Deterministic(t *testing.T) {
	for _, code := range []string{"8FWC2345+G6", "+G6", "8FWC2300+G6"} {
		first := IsValid(code)
		for range 5 {
			assert.Equal(t, first, IsValid(code), code)
		}
	}
}

func TestStripCode(t *testing.T) {
	assert.Equal(t, "8FWC", StripCode("8fwc0000+"))
	assert.Equal(t, "8FWC2345G6", StripCode("8FWC2345+G6"))
	assert.Equal(t, "849VGJQFVX7QR3J", StripCode("849VGJQF+VX7QR3JWXX"))
}
