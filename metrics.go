package pm1006

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	REJECTHEADER   = "header"
	REJECTCHECKSUM = "checksum"
)

// Metrics is optional. Methods are safe on nil
type Metrics struct {
	FramesAccepted prometheus.Counter
	FramesRejected *prometheus.CounterVec
	Overruns       prometheus.Counter
	EnvSamples     *prometheus.CounterVec
	Cycles         prometheus.Counter

	PM25     prometheus.Gauge
	AvgPM25  prometheus.Gauge
	AvgDegC  prometheus.Gauge
	AvgHumid prometheus.Gauge
}

func newCounter(name string, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Namespace: "pm1006", Name: name, Help: help})
}

func newGauge(name string, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "pm1006", Name: name, Help: help})
}

// NewMetrics creates and registers collectors. reg=nil creates without registering
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FramesAccepted: newCounter("frames_accepted_total", "Frames that passed header and checksum"),
		FramesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pm1006",
			Name:      "frames_rejected_total",
			Help:      "Discarded frames by reason",
		}, []string{"reason"}),
		Overruns: newCounter("rx_overruns_total", "Scratch buffer cleared because byte limit was reached"),
		EnvSamples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pm1006",
			Name:      "env_samples_total",
			Help:      "Temperature/humidity read attempts by result",
		}, []string{"result"}),
		Cycles:   newCounter("cycles_total", "Completed averaging cycles"),
		PM25:     newGauge("pm25", "Last PM2.5 reading (units: µg/m³)"),
		AvgPM25:  newGauge("avg_pm25", "Rolling average PM2.5 (units: µg/m³)"),
		AvgDegC:  newGauge("avg_temperature", "Rolling average temperature (units: degrees Celsius)"),
		AvgHumid: newGauge("avg_humidity", "Rolling average humidity (units: % of relative humidity)"),
	}
	if reg != nil {
		reg.MustRegister(m.FramesAccepted, m.FramesRejected, m.Overruns, m.EnvSamples, m.Cycles,
			m.PM25, m.AvgPM25, m.AvgDegC, m.AvgHumid)
	}
	return m
}

func (p *Metrics) frameAccepted(pm25 uint16) {
	if p == nil {
		return
	}
	p.FramesAccepted.Inc()
	p.PM25.Set(float64(pm25))
}

func (p *Metrics) frameRejected(reason string) {
	if p == nil {
		return
	}
	p.FramesRejected.WithLabelValues(reason).Inc()
}

func (p *Metrics) overrun() {
	if p == nil {
		return
	}
	p.Overruns.Inc()
}

func (p *Metrics) envSample(ok bool) {
	if p == nil {
		return
	}
	if ok {
		p.EnvSamples.WithLabelValues("ok").Inc()
	} else {
		p.EnvSamples.WithLabelValues("fail").Inc()
	}
}

func (p *Metrics) averages(avg Averages) {
	if p == nil {
		return
	}
	p.Cycles.Inc()
	p.AvgPM25.Set(float64(avg.PM25))
	p.AvgDegC.Set(avg.DegC)
	p.AvgHumid.Set(avg.Humid)
}
