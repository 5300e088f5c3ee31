package runtimeabi

import "math"

// The invented otter_math_* helpers back math.ot's thin wrappers; spec
// 6.3's fixed ABI table doesn't list them (it only covers IO, string
// formatting, time, errors, and UTF-8), but 4.5.1's emitter already
// invents its own helper symbols beyond that table (array/dict/struct
// ops), so extending the same convention to a handful of float
// primitives the stdlib needs follows the established pattern rather
// than hand-rolling math in Otter source.
func OtterMathSqrt(x float64) float64 { return math.Sqrt(x) }
func OtterMathFloor(x float64) float64 { return math.Floor(x) }
func OtterMathCeil(x float64) float64  { return math.Ceil(x) }
