package growth

import "testing"

func mustTable(t *testing.T, entries map[int]LMS) *ReferenceTable {
	t.Helper()
	rt, err := NewReferenceTable(entries)
	if err != nil {
		t.Fatalf("NewReferenceTable: %v", err)
	}
	return &rt
}

// fixtureTables is a coarse reference set: height and BMI from birth to
// 228 months, weight to 120 months, and an extended weight table for boys.
func fixtureTables(t *testing.T) *Tables {
	t.Helper()
	return &Tables{
		Source: "fixture",
		Male: GenderTables{
			Height: mustTable(t, map[int]LMS{
				0: {1, 49.9, 0.038}, 12: {1, 75.7, 0.031}, 24: {1, 87.1, 0.035},
				36: {1, 96.1, 0.037}, 60: {1, 110.3, 0.039}, 120: {1, 137.8, 0.045},
				228: {1, 176.5, 0.039},
			}),
			Weight: mustTable(t, map[int]LMS{
				0: {0.35, 3.35, 0.146}, 12: {0.06, 9.65, 0.109}, 24: {-0.01, 12.15, 0.112},
				36: {-0.07, 14.3, 0.116}, 60: {-0.12, 18.3, 0.127}, 120: {-0.85, 31.2, 0.17},
			}),
			WeightExtended: mustTable(t, map[int]LMS{
				120: {-0.32, 31.5, 0.172}, 180: {-0.05, 56.2, 0.15}, 240: {0.04, 70.6, 0.128},
			}),
			BodyMassIndex: mustTable(t, map[int]LMS{
				0: {-0.31, 13.4, 0.096}, 24: {-0.62, 16.0, 0.078}, 36: {-0.55, 15.6, 0.079},
				60: {-0.7, 15.2, 0.083}, 120: {-1.4, 16.6, 0.106}, 228: {-1.05, 22.5, 0.117},
			}),
		},
		Female: GenderTables{
			Height: mustTable(t, map[int]LMS{
				0: {1, 49.1, 0.038}, 60: {1, 109.4, 0.042}, 228: {1, 161.4, 0.039},
			}),
			Weight: mustTable(t, map[int]LMS{
				0: {0.38, 3.23, 0.142}, 60: {-0.35, 18.2, 0.141}, 120: {-0.95, 31.9, 0.174},
			}),
			BodyMassIndex: mustTable(t, map[int]LMS{
				0: {-0.06, 13.3, 0.093}, 60: {-0.8, 15.2, 0.093}, 228: {-0.8, 21.4, 0.133},
			}),
		},
	}
}
