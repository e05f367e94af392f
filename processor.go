package pm1006

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

/*
Processor validates scratch buffer and moves reading to SensorState.

	header gate -> checksum gate -> extract + average

Every outcome clears the receiver buffer
*/
type Processor struct {
	log     logrus.FieldLogger
	metrics *Metrics
}

func NewProcessor(cfg Config) *Processor {
	return &Processor{log: cfg.logger(), metrics: cfg.Metrics}
}

func (p *Processor) validate(buf []byte) error {
	if !ValidHeader(buf) {
		p.metrics.frameRejected(REJECTHEADER)
		return errors.Wrapf(ErrInvalidHeader, "got % X", buf[0:len(pm1006Header)])
	}
	if sum := Checksum(buf); sum != 0 {
		p.metrics.frameRejected(REJECTCHECKSUM)
		return errors.Wrapf(ErrInvalidChecksum, "expected 0, actual %d", sum)
	}
	return nil
}

/*
Process returns true when reading completed a cycle and averages were updated.
Validation errors are logged and returned for inspection, they are never fatal
*/
func (p *Processor) Process(rx *Receiver, state *SensorState) (bool, error) {
	defer rx.Clear()

	buf := rx.Buffer()
	if err := p.validate(buf); err != nil {
		p.log.WithField("cursor", rx.Cursor()).Info(err)
		return false, err
	}

	pm25 := ExtractPM25(buf)
	p.metrics.frameAccepted(pm25)
	p.log.WithField("pm25", pm25).Debug("received PM2.5 reading")

	if !state.addMeasurement(pm25) {
		return false, nil
	}
	p.log.WithFields(logrus.Fields{
		"avgPM25":  state.AvgPM25,
		"avgDegC":  state.AvgDegC,
		"avgHumid": state.AvgHumid,
	}).Info("new averages")
	return true, nil
}
