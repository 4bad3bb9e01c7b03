// Command olc encodes, decodes, shortens and recovers plus codes.
//
//	olc encode 47.365590 8.524997 --length 11
//	olc decode 8FVC9G8F+6XQ
//	olc shorten 9C3W9QCJ+2VX 51.3701125 -1.217765625
//	olc recover CWC8+R9 37.4 -122.0
//	olc validate 8FWC2345+G6 WC2345+G6g
//
// Put "--" before the arguments when the first coordinate is negative.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
