package pm1006

import (
	"fmt"
	"math"
	"strings"
)

// Averages is published every time pollutant history wraps
type Averages struct {
	PM25   uint16  `json:"pm25"`  //µg/m³
	DegC   float64 `json:"degC"`  //°C
	Humid  float64 `json:"humid"` //%RH
	Cycle  int     `json:"cycle"`
	Uptime int64   `json:"uptime"` //Milliseconds since monitor started
}

// CompensatedPM25 is humidity normalized. NOTICE: empirical, see humiditycompensate.go
func (p Averages) CompensatedPM25() float64 {
	return NormalizePM25(float64(p.PM25), p.Humid)
}

func millisecToString(ms int64) string {
	toks := []string{}
	total := ms
	if (1000 * 60 * 60) < ms {
		toks = append(toks, fmt.Sprintf("%vh", int64(math.Floor(float64(total)/(1000*60*60)))))
		total = total % (1000 * 60 * 60)
	}

	if (1000 * 60) < ms {
		toks = append(toks, fmt.Sprintf("%vmin", int64(math.Floor(float64(total)/(1000*60)))))
		total = total % (1000 * 60)
	}
	toks = append(toks, fmt.Sprintf("%vsec", int64(math.Floor(float64(total)/(1000)))))
	return strings.Join(toks, " ")
}

func (p Averages) String() string {
	return fmt.Sprintf("cycle=%v %v PM2.5= %vµg/m³ T= %.1f°C RH= %.1f%%", p.Cycle, millisecToString(p.Uptime), p.PM25, p.DegC, p.Humid)
}
