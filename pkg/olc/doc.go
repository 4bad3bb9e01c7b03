// Package olc implements Open Location Code ("plus code") encoding and
// decoding.
//
// A plus code is a short string that names a rectangle on the WGS-84
// latitude/longitude grid, e.g. "8FWC2345+G6". Codes are built from a
// 20-symbol alphabet:
//
//	23456789CFGHJMPQRVWX
//
// # Code structure
//
// The first ten significant digits are pairs: a latitude digit followed by
// a longitude digit, each in base 20. Successive pairs narrow the cell from
// 20° to 1°, 0.05°, 0.0025° and finally 0.000125° (about 14m at the equator).
//
//	8F WC 23 45 + G6
//	^  ^  ^  ^    ^
//	20° 1° .05° .0025° .000125°
//
// Digits 11 to 15 refine the cell with a 4-column by 5-row grid, one digit
// per step (index = row*4 + col).
//
// A separator "+" always follows the eighth digit. Codes shorter than eight
// digits are padded with "0" up to the separator, e.g. "8FWC0000+".
//
// # Full and short codes
//
// A full code has its separator at position 8 and can be decoded on its own.
// A short code has had 2, 4, 6 or 8 leading digits removed ("+G6",
// "2345+G6") and needs a nearby reference location to be recovered. See
// [Shorten] and [RecoverNearest].
//
// # Arithmetic
//
// All digit extraction works on integers at the finest precision: 1/25e6
// degree for latitude and 1/8.192e6 degree for longitude. Floats appear only
// at the API boundary, so every port sharing the reference corpus produces
// the same digits near cell edges.
//
// All functions are pure and safe for concurrent use.
package olc
