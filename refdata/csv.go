package refdata

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nsip/otf-growth/growth"
	"github.com/pkg/errors"
)

//
// csv files recognised by LoadCSVDir, in the naming used by the
// published WHO growth chart exports.
// The CDC files are optional and provide the extended weight table.
//
var csvFiles = []struct {
	name     string
	gender   growth.Gender
	key      string
	required bool
}{
	{"WHO.Female.Height.csv", growth.Female, "height", true},
	{"WHO.Female.Weight.csv", growth.Female, "weight", true},
	{"WHO.Female.BMI.csv", growth.Female, "bodyMassIndex", true},
	{"CDC.Female.Weight.csv", growth.Female, extendedWeightKey, false},
	{"WHO.Male.Height.csv", growth.Male, "height", true},
	{"WHO.Male.Weight.csv", growth.Male, "weight", true},
	{"WHO.Male.BMI.csv", growth.Male, "bodyMassIndex", true},
	{"CDC.Male.Weight.csv", growth.Male, extendedWeightKey, false},
}

//
// LoadCSVDir imports reference tables from a directory of WHO-style
// csv exports. Each row is age-in-months;L;M;S (comma separated rows are
// also accepted), the first line is a header and rows that do not parse
// are skipped. Ages are rounded to the nearest month; a later row for the
// same month replaces an earlier one.
//
func LoadCSVDir(dir string) (*growth.Tables, error) {

	ts := &growth.Tables{Source: "csv:" + dir}

	for _, f := range csvFiles {
		path := filepath.Join(dir, f.name)
		fh, err := os.Open(path)
		if os.IsNotExist(err) && !f.required {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "cannot open reference csv")
		}
		entries, err := ReadCSV(fh)
		fh.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "reference csv %s", path)
		}
		rt, err := growth.NewReferenceTable(entries)
		if err != nil {
			return nil, errors.Wrapf(err, "reference csv %s", path)
		}
		gt := &ts.Female
		if f.gender == growth.Male {
			gt = &ts.Male
		}
		if err := assign(gt, f.key, rt); err != nil {
			return nil, err
		}
	}

	return ts, nil
}

//
// ReadCSV reads month-indexed LMS rows from r.
//
func ReadCSV(r io.Reader) (map[int]growth.LMS, error) {
	entries := make(map[int]growth.LMS)
	sc := bufio.NewScanner(r)
	first := true
	for sc.Scan() {
		if first {
			first = false
			continue
		}
		month, p, ok := parseRow(sc.Text())
		if !ok {
			continue
		}
		entries[month] = p
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read csv")
	}
	return entries, nil
}

func parseRow(row string) (int, growth.LMS, bool) {
	parts := strings.Split(row, ";")
	if len(parts) < 4 {
		parts = strings.Split(row, ",")
	}
	if len(parts) < 4 {
		return 0, growth.LMS{}, false
	}

	var vals [4]float64
	for i := range vals {
		v, err := strconv.ParseFloat(strings.Trim(strings.TrimSpace(parts[i]), `"`), 64)
		if err != nil {
			return 0, growth.LMS{}, false
		}
		vals[i] = v
	}
	return nearestMonth(vals[0]), growth.LMS{L: vals[1], M: vals[2], S: vals[3]}, true
}
