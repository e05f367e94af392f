package pm1006

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// Gives one chunk per drain, like bytes arriving between polls
type chunkSource struct {
	chunks    [][]byte
	reads     int
	failAfter int //ReadByte fails when reads reaches this, 0 = never
}

func newChunkSource(chunks ...[]byte) *chunkSource {
	return &chunkSource{chunks: chunks}
}

func (p *chunkSource) Available() (int, error) {
	if len(p.chunks) == 0 {
		return 0, nil
	}
	if len(p.chunks[0]) == 0 {
		p.chunks = p.chunks[1:]
		return 0, nil
	}
	return len(p.chunks[0]), nil
}

func (p *chunkSource) ReadByte() (byte, error) {
	if 0 < p.failAfter && p.failAfter <= p.reads {
		return 0, errors.New("line broken")
	}
	if len(p.chunks) == 0 || len(p.chunks[0]) == 0 {
		return 0, io.EOF
	}
	b := p.chunks[0][0]
	p.chunks[0] = p.chunks[0][1:]
	p.reads++
	return b, nil
}

type fakeEnv struct {
	degC  float64
	humid float64
	fail  bool
	reads int
}

func (p *fakeEnv) Read() error {
	p.reads++
	if p.fail {
		return errors.New("dht read fail")
	}
	return nil
}

func (p *fakeEnv) Temperature() float64 { return p.degC }
func (p *fakeEnv) Humidity() float64    { return p.humid }

type fakeClock struct {
	t time.Time
}

func (p *fakeClock) Now() time.Time {
	return p.t
}

func (p *fakeClock) Advance(d time.Duration) {
	p.t = p.t.Add(d)
}

func testConfig() (Config, *logtest.Hook, *fakeClock) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	clk := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	cfg := DefaultConfig()
	cfg.ByteDelay = 0
	cfg.Log = logger
	cfg.Now = clk.Now
	cfg.Metrics = NewMetrics(nil)
	return cfg, hook, clk
}
