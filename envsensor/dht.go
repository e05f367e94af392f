package envsensor

import (
	"github.com/MichaelS11/go-dht"
	"github.com/pkg/errors"
)

type dhtReader interface {
	Read() (humidity float64, temperature float64, err error)
}

// DHT is DHT11/DHT22 on GPIO pin
type DHT struct {
	Reading
	dev dhtReader
}

func NewDHT(pinName string, sensorType string) (*DHT, error) {
	if err := dht.HostInit(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	dev, err := dht.NewDHT(pinName, dht.Celsius, sensorType)
	if err != nil {
		return nil, errors.Wrapf(err, "%v on %v", sensorType, pinName)
	}
	return &DHT{dev: dev}, nil
}

// Read keeps old values on failure
func (p *DHT) Read() error {
	humidity, temperature, err := p.dev.Read()
	if err != nil {
		return errors.Wrap(err, "dht read fail")
	}
	p.degC = temperature
	p.humid = humidity
	return nil
}

func (p *DHT) Close() error {
	return nil
}
