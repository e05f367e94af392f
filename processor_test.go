package pm1006

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiverWith(t *testing.T, cfg Config, data []byte) *Receiver {
	rx := NewReceiver(newChunkSource(data), cfg)
	n, err := rx.Drain()
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	return rx
}

func TestProcessExample(t *testing.T) {
	cfg, _, _ := testConfig()
	state := SensorState{}
	rx := receiverWith(t, cfg, frame100)

	completed, err := NewProcessor(cfg).Process(rx, &state)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, uint16(100), state.Measurements()[0])
	assert.Equal(t, 1, state.MeasurementIdx())
	assert.False(t, state.Valid)

	assert.Equal(t, 0, rx.Cursor())
	assert.Equal(t, make([]byte, RXBUFFERSIZE), rx.Buffer())
	assert.Equal(t, 1.0, testutil.ToFloat64(cfg.Metrics.FramesAccepted))
	assert.Equal(t, 100.0, testutil.ToFloat64(cfg.Metrics.PM25))
}

func TestProcessRejects(t *testing.T) {
	badChecksum := NewFrame(33)
	badChecksum[19] ^= 0x01

	badHeader := NewFrame(33)
	badHeader[1] = 0x12
	badHeader[19]-- //Keeps sum zero, only header is wrong

	testCases := []struct {
		name   string
		data   []byte
		cause  error
		reason string
	}{
		{name: "header", data: badHeader, cause: ErrInvalidHeader, reason: REJECTHEADER},
		{name: "checksum", data: badChecksum, cause: ErrInvalidChecksum, reason: REJECTCHECKSUM},
		{name: "noise", data: []byte{0x00, 0xFF, 0x16, 0x11, 0x0B}, cause: ErrInvalidHeader, reason: REJECTHEADER},
		{name: "truncated", data: NewFrame(33)[0:12], cause: ErrInvalidChecksum, reason: REJECTCHECKSUM},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, hook, _ := testConfig()
			state := SensorState{}
			state.addMeasurement(5)
			state.addEnvironment(20, 30)
			before := state

			rx := receiverWith(t, cfg, tc.data)
			completed, err := NewProcessor(cfg).Process(rx, &state)
			assert.False(t, completed)
			assert.Equal(t, tc.cause, errors.Cause(err))
			assert.Equal(t, before, state)
			assert.Equal(t, 0, rx.Cursor())
			assert.Equal(t, make([]byte, RXBUFFERSIZE), rx.Buffer())
			assert.Equal(t, 1.0, testutil.ToFloat64(cfg.Metrics.FramesRejected.WithLabelValues(tc.reason)))
			assert.Equal(t, 0.0, testutil.ToFloat64(cfg.Metrics.FramesAccepted))

			require.NotNil(t, hook.LastEntry())
			assert.Contains(t, hook.LastEntry().Message, tc.cause.Error())
		})
	}
}

func TestProcessChecksumMessage(t *testing.T) {
	cfg, _, _ := testConfig()
	frame := NewFrame(1)
	frame[19] += 3
	_, err := NewProcessor(cfg).Process(receiverWith(t, cfg, frame), &SensorState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 0, actual 3")
}

func TestProcessCycleAverage(t *testing.T) {
	cfg, _, _ := testConfig()
	state := SensorState{}
	proc := NewProcessor(cfg)

	values := []uint16{10, 20, 30, 40, 51} //mean 30.2 truncates to 30
	for i, v := range values {
		completed, err := proc.Process(receiverWith(t, cfg, NewFrame(v)), &state)
		require.NoError(t, err)
		last := i == len(values)-1
		assert.Equal(t, last, completed, "frame %v", i)
		assert.Equal(t, last, state.Valid, "frame %v", i)
	}
	assert.Equal(t, uint16(30), state.AvgPM25)
	assert.Equal(t, 1, state.Cycles)
	assert.Equal(t, 0, state.MeasurementIdx())
}

func TestProcessAverageUsesAllRings(t *testing.T) {
	cfg, _, _ := testConfig()
	state := SensorState{}
	proc := NewProcessor(cfg)

	//Environment lags: only three samples so far
	state.addEnvironment(20, 40)
	state.addEnvironment(21, 41)
	state.addEnvironment(22, 42)

	for i := 0; i < RINGSIZE; i++ {
		_, err := proc.Process(receiverWith(t, cfg, NewFrame(100)), &state)
		require.NoError(t, err)
	}
	require.True(t, state.Valid)
	assert.Equal(t, uint16(100), state.AvgPM25)
	assert.InDelta(t, 63.0/5, state.AvgDegC, 1e-9)
	assert.InDelta(t, 123.0/5, state.AvgHumid, 1e-9)
}

func TestProcessIndexModulo(t *testing.T) {
	cfg, _, _ := testConfig()
	state := SensorState{}
	proc := NewProcessor(cfg)
	for n := 1; n <= 23; n++ {
		_, err := proc.Process(receiverWith(t, cfg, NewFrame(uint16(n))), &state)
		require.NoError(t, err)
		assert.Equal(t, n%RINGSIZE, state.MeasurementIdx())
		assert.Equal(t, n/RINGSIZE, state.Cycles)
	}
	assert.Equal(t, 23.0, testutil.ToFloat64(cfg.Metrics.FramesAccepted))
}
