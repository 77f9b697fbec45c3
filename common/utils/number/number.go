package number

import (
	"math"
	"strconv"
)

const Epsilon = 0.000001

func IsZero(f float64) bool {
	return math.Abs(f) < Epsilon
}

func FloatEquals(a float64, b float64) bool {
	return IsZero(a - b)
}

func FloatToStr(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}

func Map(value, fromlow, fromhigh, tolow, tohigh float64) float64 {
	return (value-fromlow)*(tohigh-tolow)/(fromhigh-fromlow) + tolow
}

func DegreeToRadian(degree float64) float64 {
	return degree * (math.Pi / 180.0)
}

func RadianToDegree(radian float64) float64 {
	return radian * (180.0 / math.Pi)
}
