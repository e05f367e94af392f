package pm1006

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorCycle(t *testing.T) {
	cfg, _, clk := testConfig()
	src := newChunkSource(NewFrame(100), NewFrame(101), NewFrame(102), NewFrame(103), NewFrame(104))
	env := &fakeEnv{degC: 21.5, humid: 40}
	results := make(chan Averages, 1)

	mon, err := NewMonitor(src, env, cfg, results)
	require.NoError(t, err)

	for i := 0; i < RINGSIZE; i++ {
		clk.Advance(cfg.EnvInterval + time.Millisecond)
		mon.Poll()
		if i < RINGSIZE-1 {
			assert.Len(t, results, 0)
		}
	}
	require.Len(t, results, 1)
	avg := <-results
	assert.Equal(t, uint16(102), avg.PM25)
	//Environment is sampled after frame processing, last slot was still empty
	assert.InDelta(t, 21.5*4/5, avg.DegC, 1e-9)
	assert.InDelta(t, 40.0*4/5, avg.Humid, 1e-9)
	assert.Equal(t, 1, avg.Cycle)
	assert.Equal(t, int64(5*2001), avg.Uptime)

	state := mon.State()
	assert.True(t, state.Valid)
	assert.Equal(t, 0, state.MeasurementIdx())
	assert.Equal(t, 0, state.DhtMeasurementIdx())
	assert.Equal(t, 1.0, testutil.ToFloat64(cfg.Metrics.Cycles))
	assert.Equal(t, 102.0, testutil.ToFloat64(cfg.Metrics.AvgPM25))
}

func TestMonitorGarbageBetweenFrames(t *testing.T) {
	cfg, _, _ := testConfig()
	src := newChunkSource(
		NewFrame(10),
		[]byte{0x00, 0x16, 0x11}, //line noise
		bytes.Repeat([]byte{0x16}, 80),
		NewFrame(20),
	)
	mon, err := NewMonitor(src, nil, cfg, nil)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		mon.Poll()
	}
	state := mon.State()
	assert.Equal(t, [RINGSIZE]uint16{10, 20, 0, 0, 0}, state.Measurements())
	assert.Equal(t, 2, state.MeasurementIdx())
	assert.Equal(t, 1.0, testutil.ToFloat64(cfg.Metrics.Overruns))
	assert.Equal(t, 2.0, testutil.ToFloat64(cfg.Metrics.FramesRejected.WithLabelValues(REJECTHEADER)))
}

func TestMonitorIdlePoll(t *testing.T) {
	cfg, hook, _ := testConfig()
	mon, err := NewMonitor(newChunkSource(), nil, cfg, nil)
	require.NoError(t, err)
	mon.Poll()
	assert.Len(t, hook.AllEntries(), 0)
	assert.Equal(t, SensorState{}, mon.State())
}

func TestMonitorFullChannelDoesNotBlock(t *testing.T) {
	cfg, _, _ := testConfig()
	chunks := [][]byte{}
	for i := 0; i < 3*RINGSIZE; i++ {
		chunks = append(chunks, NewFrame(uint16(i)))
	}
	results := make(chan Averages, 1)
	mon, err := NewMonitor(newChunkSource(chunks...), nil, cfg, results)
	require.NoError(t, err)
	for range chunks {
		mon.Poll()
	}
	assert.Len(t, results, 1)
	assert.Equal(t, 3, mon.State().Cycles)
}

func TestMonitorReset(t *testing.T) {
	cfg, _, _ := testConfig()
	mon, err := NewMonitor(newChunkSource(NewFrame(5), []byte{0x16, 0x11}), nil, cfg, nil)
	require.NoError(t, err)
	mon.Poll()
	mon.Poll()
	mon.Reset()
	assert.Equal(t, SensorState{}, mon.State())
	assert.Equal(t, 0, mon.receiver.Cursor())
}

func TestMonitorRunInspect(t *testing.T) {
	cfg, _, _ := testConfig()
	cfg.PollInterval = time.Millisecond
	mon, err := NewMonitor(newChunkSource(NewFrame(77)), nil, cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() {
		runErr <- mon.Run(ctx)
	}()

	var pm [RINGSIZE]uint16
	require.NoError(t, mon.Inspect(ctx, func(m *Monitor) {
		pm = m.state.Measurements()
	}))
	assert.Equal(t, uint16(77), pm[0]) //First poll happens before any request is served

	cancel()
	select {
	case err := <-runErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("run did not stop")
	}
}

func TestNewMonitorValidation(t *testing.T) {
	cfg, _, _ := testConfig()
	_, err := NewMonitor(nil, nil, cfg, nil)
	assert.Error(t, err)

	cfg.OverrunLimit = 10
	_, err = NewMonitor(newChunkSource(), nil, cfg, nil)
	assert.Error(t, err)
}

func TestMetricsRegister(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := NewMetrics(reg)
	m.frameAccepted(12)
	m.averages(Averages{PM25: 12, DegC: 20, Humid: 50})

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 7, count) //Vectors without children are not gathered

	var nilMetrics *Metrics
	nilMetrics.frameAccepted(1) //Must not panic
	nilMetrics.overrun()
}

func TestAveragesString(t *testing.T) {
	avg := Averages{PM25: 12, DegC: 21.25, Humid: 40, Cycle: 3, Uptime: 3*60*60*1000 + 2*60*1000 + 5500}
	assert.Equal(t, "cycle=3 3h 2min 5sec PM2.5= 12µg/m³ T= 21.2°C RH= 40.0%", avg.String())
	assert.InDelta(t, 12.0, avg.CompensatedPM25(), 0.01)
	assert.Less(t, Averages{PM25: 12, Humid: 95}.CompensatedPM25(), 12.0)
}
