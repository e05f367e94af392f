/*
Sensor model

Sensor model is manipulated by user while running. Models single PM1006 pushing
frames on its own pace (like inside Vindriktning).

Simulated sensor acts as faulty sensor (or comm link) when needed.
*/

package main

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/hjkoskel/pm1006"
)

// Status is what simulator did, separate from model settings
type SensorModelStatus struct {
	FrameCounter int    `json:"frameCounter"`
	TrashCounter int    `json:"trashCounter"` //Frames that were broken on purpose
	PM25Now      uint16 `json:"pm25Now"`
}

type SensorModel struct {
	FramePeriod  int64             `json:"framePeriod"` //milliseconds between frames
	PM25         SignalModel       `json:"pm25"`
	Connectivity ConnectivityModel `json:"connectivity"`
}

type ConnectivityModel struct {
	TxConnected        bool `json:"txConnected"`        //sensor -> host line connected
	InvalidCRC         bool `json:"invalidCRC"`         //Wrong checksum, easy test
	InvalidHeader      bool `json:"invalidHeader"`      //Breaks magic bytes
	IncompletePackages bool `json:"incompletePackages"` //Not all bytes are coming
	IdleCharacters     bool `json:"idleCharacters"`     //Random line noise in between frames
}

type SignalModel struct {
	Noise     float64 `json:"noise"` //in range [value-noise, value+noise]
	Offset    float64 `json:"offset"`
	Period    int64   `json:"period"` //In milliseconds, sine period
	Phase     int64   `json:"phase"`  //In milliseconds.
	Amplitude float64 `json:"amplitude"`
}

func (p *SignalModel) Calc(t time.Time) float64 {
	wave := 0.0
	if 0 < p.Period {
		ms := t.UnixMilli()
		angle := 2.0 * math.Pi * float64((ms+p.Phase)%p.Period) / float64(p.Period)
		wave = math.Sin(angle) * p.Amplitude
	}
	noise := (rand.Float64()*2.0 - 1.0) * p.Noise
	return math.Min(math.Max(0, noise+wave+p.Offset), math.MaxUint16)
}

func DefaultSensorModel() SensorModel {
	return SensorModel{
		FramePeriod:  1000,
		PM25:         SignalModel{Noise: 2, Offset: 12, Period: 10 * 60 * 1000, Amplitude: 8},
		Connectivity: ConnectivityModel{TxConnected: true},
	}
}

// Trash frame only if needed
func (p *ConnectivityModel) TrashFrame(frame []byte) ([]byte, bool) {
	trashed := false
	if p.InvalidCRC {
		frame[len(frame)-1]++
		trashed = true
	}
	if p.InvalidHeader {
		frame[0] = 0x42
		trashed = true
	}
	if p.IncompletePackages { //Cut away from end
		frame = frame[0 : len(frame)-4]
		trashed = true
	}
	return frame, trashed
}

type SimSensor struct {
	Output chan []byte //Writes out burst of bytes

	mu     sync.Mutex
	model  SensorModel
	status SensorModelStatus
}

func InitSimSensor(model SensorModel) *SimSensor {
	return &SimSensor{
		Output: make(chan []byte, 10),
		model:  model,
	}
}

func (p *SimSensor) Model() SensorModel {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.model
}

func (p *SimSensor) SetModel(m SensorModel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = m
}

func (p *SimSensor) Status() SensorModelStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// step creates next burst of bytes. nil if line is disconnected
func (p *SimSensor) step(tNow time.Time) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	pm25 := uint16(p.model.PM25.Calc(tNow))
	p.status.PM25Now = pm25
	p.status.FrameCounter++
	if !p.model.Connectivity.TxConnected {
		return nil
	}
	frame, trashed := p.model.Connectivity.TrashFrame(pm1006.NewFrame(pm25))
	if trashed {
		p.status.TrashCounter++
	}
	if p.model.Connectivity.IdleCharacters {
		junk := make([]byte, 1+rand.Intn(8))
		for i := range junk {
			junk[i] = byte(rand.Uint32() & 0xFF)
		}
		frame = append(junk, frame...)
	}
	return frame
}

func (p *SimSensor) period() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.model.FramePeriod <= 0 {
		return time.Second
	}
	return time.Duration(p.model.FramePeriod) * time.Millisecond
}

// Run produces frames until stop is closed
func (p *SimSensor) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-time.After(p.period()):
		}
		if burst := p.step(time.Now()); burst != nil {
			p.Output <- burst
		}
	}
}
