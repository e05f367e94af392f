package pm1006

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

/*
EnvSampler reads temperature and humidity at most once per Interval, independent of
frame arrival. Last sample time is taken before read, failed read waits full interval
*/
type EnvSampler struct {
	Sensor   EnvSensor //nil = no sensor, temperature and humidity stay zero
	Interval time.Duration

	log        logrus.FieldLogger
	metrics    *Metrics
	now        func() time.Time
	lastSample time.Time
}

func NewEnvSampler(sensor EnvSensor, cfg Config) *EnvSampler {
	now := cfg.clock()
	return &EnvSampler{
		Sensor:     sensor,
		Interval:   cfg.EnvInterval,
		log:        cfg.logger(),
		metrics:    cfg.Metrics,
		now:        now,
		lastSample: now(), //Like millis() counter starting from boot
	}
}

// Sample returns true if new values were pushed to state
func (p *EnvSampler) Sample(state *SensorState) (bool, error) {
	if p.Sensor == nil {
		return false, nil
	}
	tNow := p.now()
	if tNow.Sub(p.lastSample) <= p.Interval {
		return false, nil
	}
	p.lastSample = tNow

	if errRead := p.Sensor.Read(); errRead != nil {
		p.metrics.envSample(false)
		err := errors.Wrap(ErrEnvironmentalRead, errRead.Error())
		p.log.Warn(err)
		return false, err
	}
	p.metrics.envSample(true)

	temp := p.Sensor.Temperature()
	humidity := p.Sensor.Humidity()
	p.log.WithFields(logrus.Fields{"idx": state.DhtMeasurementIdx(), "degC": temp, "humid": humidity}).Debug("environment sampled")
	state.addEnvironment(temp, humidity)
	return true, nil
}
