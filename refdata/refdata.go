//
// Package refdata provides the growth reference tables: the snapshot
// compiled into the binary, snapshots on disk, WHO-style csv imports,
// and a Store that lets a running service swap snapshots atomically.
//
package refdata

import (
	_ "embed"
	"io/ioutil"
	"math"
	"strconv"

	"github.com/nsip/otf-growth/growth"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

//go:embed data/reference_lms.json
var embedded []byte

//
// snapshot layout:
//
// {
//   "source": "...",
//   "tables": {
//     "female"|"male": {
//       "height"|"weight"|"bodyMassIndex"|"weightExtended": {"<month>": [L, M, S], ...}
//     }
//   }
// }
//
const extendedWeightKey = "weightExtended"

//
// Embedded returns the reference snapshot compiled into the binary.
//
func Embedded() (*growth.Tables, error) {
	ts, err := Parse(embedded)
	if err != nil {
		return nil, errors.Wrap(err, "embedded reference snapshot")
	}
	return ts, nil
}

//
// LoadFile reads and parses a snapshot from disk.
//
func LoadFile(path string) (*growth.Tables, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read reference snapshot")
	}
	ts, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "reference snapshot %s", path)
	}
	return ts, nil
}

//
// Parse builds reference tables from snapshot json.
//
func Parse(data []byte) (*growth.Tables, error) {

	if !gjson.ValidBytes(data) {
		return nil, errors.New("snapshot is not valid json")
	}
	tables := gjson.GetBytes(data, "tables")
	if !tables.IsObject() {
		return nil, errors.New("snapshot has no tables object")
	}

	ts := &growth.Tables{Source: gjson.GetBytes(data, "source").String()}

	var err error
	tables.ForEach(func(gKey, gVal gjson.Result) bool {
		var g growth.Gender
		if g, err = growth.ParseGender(gKey.String()); err != nil {
			return false
		}
		gt := &ts.Female
		if g == growth.Male {
			gt = &ts.Male
		}
		if !gVal.IsObject() {
			err = errors.Errorf("%s: expected an object of tables", gKey)
			return false
		}
		gVal.ForEach(func(mKey, mVal gjson.Result) bool {
			var rt growth.ReferenceTable
			if rt, err = parseTable(mVal); err != nil {
				err = errors.Wrapf(err, "%s %s", gKey, mKey)
				return false
			}
			err = assign(gt, mKey.String(), rt)
			return err == nil
		})
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	return ts, nil
}

func assign(gt *growth.GenderTables, key string, rt growth.ReferenceTable) error {
	if key == extendedWeightKey {
		gt.WeightExtended = &rt
		return nil
	}
	m, err := growth.ParseMetric(key)
	if err != nil {
		return err
	}
	switch m {
	case growth.Height:
		gt.Height = &rt
	case growth.Weight:
		gt.Weight = &rt
	case growth.BodyMassIndex:
		gt.BodyMassIndex = &rt
	}
	return nil
}

func parseTable(v gjson.Result) (growth.ReferenceTable, error) {
	if !v.IsObject() {
		return growth.ReferenceTable{}, errors.New("expected an object keyed by month")
	}
	entries := make(map[int]growth.LMS)
	var err error
	v.ForEach(func(key, triplet gjson.Result) bool {
		month, convErr := strconv.Atoi(key.String())
		if convErr != nil {
			err = errors.Errorf("month key %q is not an integer", key.String())
			return false
		}
		vals := triplet.Array()
		if len(vals) != 3 {
			err = errors.Errorf("month %d: expected [L, M, S], got %s", month, triplet.Raw)
			return false
		}
		for _, n := range vals {
			if n.Type != gjson.Number {
				err = errors.Errorf("month %d: %s is not a number", month, n.Raw)
				return false
			}
		}
		entries[month] = growth.LMS{L: vals[0].Float(), M: vals[1].Float(), S: vals[2].Float()}
		return true
	})
	if err != nil {
		return growth.ReferenceTable{}, err
	}
	return growth.NewReferenceTable(entries)
}

//
// nearestMonth rounds to the nearest month index, ties to even.
//
func nearestMonth(age float64) int {
	return int(math.RoundToEven(age))
}
