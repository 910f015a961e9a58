//
// web service that accepts a child's birth date, measurement date,
// height, weight and gender, and evaluates the measurements against
// growth reference tables.
// returns z-scores and percentiles for height-for-age, weight-for-age and
// bmi-for-age, plus a weight-status category for bmi, so that
// measurements taken by different clinics and tools can be compared on
// the same reference scale.
//
package otfgrowth
