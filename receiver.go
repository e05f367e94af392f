/*
Receiver

Pulls bytes from ByteSource into scratch buffer one byte at a time until source has
nothing more to give. No framing here: buffer is handed to Processor after every
drain, header and checksum decide.

Overrun guard: if cursor reaches OverrunLimit whole buffer is discarded. Hard cutoff.
*/
package pm1006

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Receiver struct {
	Source       ByteSource
	ByteDelay    time.Duration //Link drops bytes if read too fast
	OverrunLimit int

	log     logrus.FieldLogger
	metrics *Metrics

	buf    [RXBUFFERSIZE]byte
	cursor int
}

func NewReceiver(source ByteSource, cfg Config) *Receiver {
	limit := cfg.OverrunLimit
	if limit <= 0 || RXBUFFERSIZE < limit {
		limit = RXOVERRUNLIMIT
	}
	return &Receiver{
		Source:       source,
		ByteDelay:    cfg.ByteDelay,
		OverrunLimit: limit,
		log:          cfg.logger(),
		metrics:      cfg.Metrics,
	}
}

// Buffer is whole scratch buffer. Bytes after cursor are zero
func (p *Receiver) Buffer() []byte {
	return p.buf[:]
}

func (p *Receiver) Cursor() int {
	return p.cursor
}

func (p *Receiver) Clear() {
	p.buf = [RXBUFFERSIZE]byte{}
	p.cursor = 0
}

// Feed appends one byte. Returns ErrReceptionOverrun if limit was hit and buffer cleared
func (p *Receiver) Feed(b byte) error {
	p.buf[p.cursor] = b
	p.cursor++
	if p.OverrunLimit <= p.cursor {
		p.Clear()
		p.metrics.overrun()
		return ErrReceptionOverrun
	}
	return nil
}

/*
Drain reads while source reports bytes available. Returns number of bytes read.
Zero means nothing was there and nothing was done. Source errors stop the drain,
bytes collected so far stay in buffer
*/
func (p *Receiver) Drain() (int, error) {
	n := 0
	for {
		avail, errAvail := p.Source.Available()
		if errAvail != nil {
			return n, errors.Wrap(errAvail, "byte source availability")
		}
		if avail <= 0 {
			return n, nil
		}
		b, errRead := p.Source.ReadByte()
		if errRead != nil {
			return n, errors.Wrap(errRead, "byte source read")
		}
		n++
		if errFeed := p.Feed(b); errFeed != nil {
			p.log.WithField("limit", p.OverrunLimit).Warn(errFeed)
		}
		if 0 < p.ByteDelay {
			time.Sleep(p.ByteDelay)
		}
	}
}
