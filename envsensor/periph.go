package envsensor

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// Senser is the part of physic.SenseEnv needed here
type Senser interface {
	Sense(e *physic.Env) error
}

// Periph is any periph.io environmental sensor
type Periph struct {
	Reading
	dev Senser
	bus i2c.BusCloser //nil if not opened here
}

func NewPeriph(dev Senser) *Periph {
	return &Periph{dev: dev}
}

func (p *Periph) Read() error {
	var env physic.Env
	if err := p.dev.Sense(&env); err != nil {
		return errors.Wrap(err, "sense")
	}
	p.degC = float64(env.Temperature-physic.ZeroCelsius) / float64(physic.Kelvin)
	p.humid = float64(env.Humidity) / float64(physic.PercentRH)
	return nil
}

func (p *Periph) Close() error {
	if h, ok := p.dev.(interface{ Halt() error }); ok {
		h.Halt()
	}
	if p.bus != nil {
		return p.bus.Close()
	}
	return nil
}

// OpenBME280 opens I²C bus (""=first available) and BME280/BMP280 on it
func OpenBME280(busName string, addr uint16) (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errors.Wrapf(err, "open I2C bus %q", busName)
	}
	dev, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, errors.Wrapf(err, "bmxx80 at 0x%X", addr)
	}
	return &Periph{dev: dev, bus: bus}, nil
}
