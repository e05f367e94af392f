package pm1006

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	RXBUFFERSIZE   = 255 //Scratch buffer
	RXOVERRUNLIMIT = 64  //Clear everything if this many bytes without complete cycle

	BYTEDELAY    = 15   //Milliseconds between byte reads. Link drops bytes without
	ENVINTERVAL  = 2000 //Milliseconds between temperature/humidity samples
	POLLINTERVAL = 100  //Milliseconds between polls in Run
)

type Config struct {
	ByteDelay    time.Duration
	EnvInterval  time.Duration
	PollInterval time.Duration
	OverrunLimit int

	//Optional collaborators
	Log     logrus.FieldLogger //Defaults to standard logger
	Metrics *Metrics           //nil = not collected
	Now     func() time.Time   //Clock, for testing
}

func DefaultConfig() Config {
	return Config{
		ByteDelay:    BYTEDELAY * time.Millisecond,
		EnvInterval:  ENVINTERVAL * time.Millisecond,
		PollInterval: POLLINTERVAL * time.Millisecond,
		OverrunLimit: RXOVERRUNLIMIT,
	}
}

func (p *Config) Validate() error {
	if p.OverrunLimit < PM1006CHECKSUMSPAN || RXBUFFERSIZE < p.OverrunLimit {
		return errors.Errorf("overrun limit %v out of range %v-%v", p.OverrunLimit, PM1006CHECKSUMSPAN, RXBUFFERSIZE)
	}
	if p.ByteDelay < 0 || p.EnvInterval < 0 {
		return errors.Errorf("negative timing byteDelay=%v envInterval=%v", p.ByteDelay, p.EnvInterval)
	}
	if p.PollInterval <= 0 {
		return errors.Errorf("poll interval must be positive, got %v", p.PollInterval)
	}
	return nil
}

func (p *Config) logger() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}

func (p *Config) clock() func() time.Time {
	if p.Now == nil {
		return time.Now
	}
	return p.Now
}
