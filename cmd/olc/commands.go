package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/pluscode-etl/pkg/olc"
	"github.com/spf13/cobra"
)

var errInvalidCodes = errors.New("one or more codes are invalid")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "olc",
		Short: "Open Location Code tool",
		Long: `olc converts between coordinates and plus codes, and shortens full
codes relative to a nearby reference location.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newEncodeCmd(),
		newDecodeCmd(),
		newShortenCmd(),
		newRecoverCmd(),
		newValidateCmd(),
	)
	return root
}

func newEncodeCmd() *cobra.Command {
	var length int
	cmd := &cobra.Command{
		Use:   "encode <lat> <lng>",
		Short: "Encode a coordinate as a full plus code",
		Long: `Encode a coordinate as a full plus code.

Latitude is clipped to [-90, 90] and longitude wrapped into [-180, 180).

Example:
  olc encode 47.365590 8.524997 --length 11`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, lng, err := parsePoint(args[0], args[1])
			if err != nil {
				return err
			}
			code, err := olc.Encode(lat, lng, length)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
	cmd.Flags().IntVarP(&length, "length", "l", olc.DefaultCodeLength, "number of significant digits (2, 4, 6, 8, or 10 and above)")
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <code>",
		Short: "Decode a full plus code to its area",
		Long: `Decode a full plus code and print its bounding box, centre and length.

Example:
  olc decode 8FVC9G8F+6XQ`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			area, err := olc.Decode(args[0])
			if err != nil {
				return err
			}
			lat, lng := area.Center()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "code:   %s\n", strings.ToUpper(args[0]))
			fmt.Fprintf(out, "length: %d\n", area.Len)
			fmt.Fprintf(out, "south:  %s\n", formatDegrees(area.LatLo))
			fmt.Fprintf(out, "west:   %s\n", formatDegrees(area.LngLo))
			fmt.Fprintf(out, "north:  %s\n", formatDegrees(area.LatHi))
			fmt.Fprintf(out, "east:   %s\n", formatDegrees(area.LngHi))
			fmt.Fprintf(out, "center: %s,%s\n", formatDegrees(lat), formatDegrees(lng))
			return nil
		},
	}
}

func newShortenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shorten <code> <lat> <lng>",
		Short: "Remove leading digits recoverable from a nearby reference",
		Long: `Shorten a full plus code relative to a reference location.

Example:
  olc shorten 9C3W9QCJ+2VX 51.3701125 -1.217765625`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, lng, err := parsePoint(args[1], args[2])
			if err != nil {
				return err
			}
			short, err := olc.Shorten(args[0], lat, lng)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), short)
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newRecoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover <code> <lat> <lng>",
		Short: "Recover the nearest full code for a short code",
		Long: `Recover the full plus code nearest to a reference location.

Example:
  olc recover CWC8+R9 37.4 -122.0`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, lng, err := parsePoint(args[1], args[2])
			if err != nil {
				return err
			}
			full, err := olc.RecoverNearest(args[0], lat, lng)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), full)
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <code>...",
		Short: "Report whether codes are valid, short or full",
		Long: `Check each code and print its classification. Exits non-zero if
any code is invalid.

Example:
  olc validate 8FWC2345+G6 WC2345+G6g`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			invalid := false
			for _, code := range args {
				switch {
				case olc.IsFull(code):
					fmt.Fprintf(out, "%s\tfull\n", code)
				case olc.IsShort(code):
					fmt.Fprintf(out, "%s\tshort\n", code)
				default:
					invalid = true
					reason := olc.Check(code)
					if reason == nil {
						reason = olc.CheckFull(code)
					}
					fmt.Fprintf(out, "%s\tinvalid\t%v\n", code, reason)
				}
			}
			if invalid {
				return errInvalidCodes
			}
			return nil
		},
	}
}

func parsePoint(latS, lngS string) (lat, lng float64, err error) {
	if lat, err = strconv.ParseFloat(latS, 64); err != nil {
		return 0, 0, fmt.Errorf("latitude %q is not a number", latS)
	}
	if lng, err = strconv.ParseFloat(lngS, 64); err != nil {
		return 0, 0, fmt.Errorf("longitude %q is not a number", lngS)
	}
	return lat, lng, nil
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
