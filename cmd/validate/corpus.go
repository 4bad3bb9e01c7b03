package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/pluscode-etl/pkg/olc"
)

// Bounds in decoding.csv are printed with limited precision.
const boundsTolerance = 1e-10

// phase tracks pass/fail for one corpus file.
type phase struct {
	name    string
	rows    int
	skipped bool
	errors  []string
}

func (p *phase) errorf(line int, format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: ", line)+fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// csvRow is a data row with the 1-based line number it was read from.
type csvRow struct {
	line   int
	fields []string
}

// loadCSV reads a corpus file. Lines starting with '#' are comments and rows
// may have differing field counts.
func loadCSV(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comment = '#'
	r.FieldsPerRecord = -1

	var rows []csvRow
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.FieldPos(0)
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		rows = append(rows, csvRow{line: line, fields: rec})
	}
}

// checkEncoding accepts both "lat,lng,length,code" rows and the wider
// "lat,lng,latInt,lngInt,length,code" layout.
func checkEncoding(rows []csvRow) *phase {
	p := &phase{name: "encoding", rows: len(rows)}
	for _, row := range rows {
		var latS, lngS, lenS, want string
		switch len(row.fields) {
		case 4:
			latS, lngS, lenS, want = row.fields[0], row.fields[1], row.fields[2], row.fields[3]
		case 6:
			latS, lngS, lenS, want = row.fields[0], row.fields[1], row.fields[4], row.fields[5]
		default:
			p.errorf(row.line, "want 4 or 6 fields, got %d", len(row.fields))
			continue
		}
		lat, lng, err := parsePoint(latS, lngS)
		if err != nil {
			p.errorf(row.line, "%v", err)
			continue
		}
		length, err := strconv.Atoi(lenS)
		if err != nil {
			p.errorf(row.line, "length %q: %v", lenS, err)
			continue
		}

		got, err := olc.Encode(lat, lng, length)
		if err != nil {
			p.errorf(row.line, "Encode(%v, %v, %d): %v", lat, lng, length, err)
			continue
		}
		if got != want {
			p.errorf(row.line, "Encode(%v, %v, %d) = %s, want %s", lat, lng, length, got, want)
		}
	}
	return p
}

// checkDecoding expects "code,length,latLo,lngLo,latHi,lngHi" rows.
func checkDecoding(rows []csvRow) *phase {
	p := &phase{name: "decoding", rows: len(rows)}
	for _, row := range rows {
		if len(row.fields) != 6 {
			p.errorf(row.line, "want 6 fields, got %d", len(row.fields))
			continue
		}
		code := row.fields[0]
		length, err := strconv.Atoi(row.fields[1])
		if err != nil {
			p.errorf(row.line, "length %q: %v", row.fields[1], err)
			continue
		}
		var bounds [4]float64
		if err := parseFloats(row.fields[2:], bounds[:]); err != nil {
			p.errorf(row.line, "%v", err)
			continue
		}

		area, err := olc.Decode(code)
		if err != nil {
			p.errorf(row.line, "Decode(%s): %v", code, err)
			continue
		}
		if area.Len != length {
			p.errorf(row.line, "Decode(%s) length = %d, want %d", code, area.Len, length)
		}
		got := [4]float64{area.LatLo, area.LngLo, area.LatHi, area.LngHi}
		for i := range got {
			if math.Abs(got[i]-bounds[i]) > boundsTolerance {
				p.errorf(row.line, "Decode(%s) = %v, want %v", code, got, bounds)
				break
			}
		}
	}
	return p
}

// checkValidity expects "code,isValid,isShort,isFull" rows.
func checkValidity(rows []csvRow) *phase {
	p := &phase{name: "validity", rows: len(rows)}
	for _, row := range rows {
		if len(row.fields) != 4 {
			p.errorf(row.line, "want 4 fields, got %d", len(row.fields))
			continue
		}
		code := row.fields[0]
		var want [3]bool
		for i, s := range row.fields[1:] {
			b, err := strconv.ParseBool(s)
			if err != nil {
				p.errorf(row.line, "flag %q: %v", s, err)
				continue
			}
			want[i] = b
		}
		got := [3]bool{olc.IsValid(code), olc.IsShort(code), olc.IsFull(code)}
		if got != want {
			p.errorf(row.line, "%q: valid/short/full = %v, want %v", code, got, want)
		}
	}
	return p
}

// checkShortCodes expects "fullCode,lat,lng,shortCode,testType" rows where
// the type is B (both directions), S (shorten only) or R (recover only).
func checkShortCodes(rows []csvRow) *phase {
	p := &phase{name: "short codes", rows: len(rows)}
	for _, row := range rows {
		if len(row.fields) != 5 {
			p.errorf(row.line, "want 5 fields, got %d", len(row.fields))
			continue
		}
		full, short, kind := row.fields[0], row.fields[3], row.fields[4]
		lat, lng, err := parsePoint(row.fields[1], row.fields[2])
		if err != nil {
			p.errorf(row.line, "%v", err)
			continue
		}

		if kind == "B" || kind == "S" {
			got, err := olc.Shorten(full, lat, lng)
			switch {
			case err != nil:
				p.errorf(row.line, "Shorten(%s, %v, %v): %v", full, lat, lng, err)
			case got != short:
				p.errorf(row.line, "Shorten(%s, %v, %v) = %s, want %s", full, lat, lng, got, short)
			}
		}
		if kind == "B" || kind == "R" {
			got, err := olc.RecoverNearest(short, lat, lng)
			switch {
			case err != nil:
				p.errorf(row.line, "RecoverNearest(%s, %v, %v): %v", short, lat, lng, err)
			case got != full:
				p.errorf(row.line, "RecoverNearest(%s, %v, %v) = %s, want %s", short, lat, lng, got, full)
			}
		}
		if kind != "B" && kind != "S" && kind != "R" {
			p.errorf(row.line, "unknown test type %q", kind)
		}
	}
	return p
}

func parsePoint(latS, lngS string) (lat, lng float64, err error) {
	var pt [2]float64
	if err := parseFloats([]string{latS, lngS}, pt[:]); err != nil {
		return 0, 0, err
	}
	return pt[0], pt[1], nil
}

func parseFloats(fields []string, dst []float64) error {
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("number %q: %w", s, err)
		}
		dst[i] = v
	}
	return nil
}
