/*
Empirical and stolen equation for humidity compensation.
Optical particle counters read high when humidity is high (particles swell).

I do not have laboratory equipment so can not prove that this works
*/

package pm1006

import "math"

/*
Stolen from
https://github.com/piotrkpaul/esp8266-sds011
*/
func NormalizePM25(pm25 float64, humidity float64) float64 {
	return pm25 / (1.0 + 0.48756*math.Pow((humidity/100.0), 8.60068))
}
