package pm1006

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

/*
Monitor is one PM1006 session: receiver, processor, environmental sampler and
state. Single threaded. Call Poll from one goroutine only or use Run
*/
type Monitor struct {
	receiver  *Receiver
	processor *Processor
	env       *EnvSampler
	state     SensorState

	resultCh     chan Averages //Reporting averages, non-blocking
	pollInterval time.Duration
	log          logrus.FieldLogger
	metrics      *Metrics
	now          func() time.Time
	tStart       time.Time

	requests chan inspectRequest
}

type inspectRequest struct {
	fn   func(*Monitor)
	done chan struct{}
}

func NewMonitor(source ByteSource, env EnvSensor, cfg Config, resultCh chan Averages) (*Monitor, error) {
	if errCfg := cfg.Validate(); errCfg != nil {
		return nil, errCfg
	}
	if source == nil {
		return nil, errors.New("byte source is required")
	}
	now := cfg.clock()
	return &Monitor{
		receiver:     NewReceiver(source, cfg),
		processor:    NewProcessor(cfg),
		env:          NewEnvSampler(env, cfg),
		resultCh:     resultCh,
		pollInterval: cfg.PollInterval,
		log:          cfg.logger(),
		metrics:      cfg.Metrics,
		now:          now,
		tStart:       now(),
		requests:     make(chan inspectRequest),
	}, nil
}

// Does reporting non-blocking way. If end user is not reading, result is dropped
func (p *Monitor) publish(avg Averages) {
	p.metrics.averages(avg)
	if p.resultCh == nil {
		return
	}
	select {
	case p.resultCh <- avg:
	default:
		p.log.Debug("result channel full, dropping averages")
	}
}

/*
Poll is one cooperative cycle:
drain bytes (if any) -> validate+extract -> maybe publish, then environmental sampling.
Never fails, everything is logged
*/
func (p *Monitor) Poll() {
	n, errDrain := p.receiver.Drain()
	if errDrain != nil {
		p.log.Warn(errDrain)
	}
	if 0 < n {
		p.log.WithField("bytes", n).Debug("received")
		completed, errProcess := p.processor.Process(p.receiver, &p.state)
		if errProcess == nil {
			p.logHistory()
		}
		if completed {
			avg := p.state.Averages()
			avg.Uptime = p.now().Sub(p.tStart).Milliseconds()
			p.publish(avg)
		}
	}
	p.env.Sample(&p.state) //Errors already logged
}

func (p *Monitor) logHistory() {
	p.log.WithFields(logrus.Fields{
		"pm25":  p.state.measurements.String(),
		"degC":  p.state.degCMeasurements.String(),
		"humid": p.state.relHumidMeasurements.String(),
	}).Debug("current measurements")
}

// Run polls until context is done
func (p *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()
	for {
		p.Poll()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case req := <-p.requests:
			req.fn(p)
			close(req.done)
		}
	}
}

// Inspect runs fn inside Run loop between polls. For touching state while Run is active
func (p *Monitor) Inspect(ctx context.Context, fn func(m *Monitor)) error {
	req := inspectRequest{fn: fn, done: make(chan struct{})}
	select {
	case p.requests <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State is copy, safe to keep. Not safe while Run is active, use Inspect
func (p *Monitor) State() SensorState {
	return p.state
}

// Reset drops history, averages and partial frame
func (p *Monitor) Reset() {
	p.state.Reset()
	p.receiver.Clear()
}
