/*
Package envsensor adapts temperature/humidity drivers to pm1006.EnvSensor.

Original hardware has DHT11 next to PM1006. Any periph.io environmental device
(BME280, SHT4x, AHT20...) works too.
*/
package envsensor

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Reading keeps values of last successful Read
type Reading struct {
	degC  float64
	humid float64
}

func (p *Reading) Temperature() float64 {
	return p.degC
}

func (p *Reading) Humidity() float64 {
	return p.humid
}

/*
Open parses sensor spec from command line
  - "" or "none"  no sensor
  - "dht11:GPIO14" "dht22:GPIO4"
  - "bme280" "bme280:0x77"  on default I²C bus
*/
func Open(spec string) (Sensor, error) {
	if spec == "" || spec == "none" {
		return nil, nil
	}
	kind, arg, _ := strings.Cut(spec, ":")
	switch strings.ToLower(kind) {
	case "dht11", "dht22":
		if arg == "" {
			return nil, errors.Errorf("%v requires pin name, like %v:GPIO14", kind, kind)
		}
		sensor, err := NewDHT(arg, strings.ToLower(kind))
		if err != nil {
			return nil, err
		}
		return sensor, nil
	case "bme280", "bmp280":
		addr := uint16(0x76)
		if arg != "" {
			var parsed uint16
			if _, errScan := fmt.Sscanf(arg, "0x%x", &parsed); errScan != nil {
				return nil, errors.Wrapf(errScan, "invalid I2C address %v", arg)
			}
			addr = parsed
		}
		sensor, err := OpenBME280("", addr)
		if err != nil {
			return nil, err
		}
		return sensor, nil
	}
	return nil, errors.Errorf("unknown environmental sensor %q", spec)
}

// Sensor is pm1006.EnvSensor that also has resources to release
type Sensor interface {
	Read() error
	Temperature() float64
	Humidity() float64
	Close() error
}
