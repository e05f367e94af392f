package pm1006

import "github.com/pkg/errors"

// Data path errors. Logged and counted, never stop polling
var (
	ErrInvalidHeader     = errors.New("invalid header")
	ErrInvalidChecksum   = errors.New("invalid checksum")
	ErrReceptionOverrun  = errors.New("reception overrun")
	ErrEnvironmentalRead = errors.New("environmental sensor read failed")
)
