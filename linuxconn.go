//go:build !tinygo

package pm1006

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hjkoskel/listserialports"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// LinuxConn is serial port as ByteSource. Also writes, simulator needs
type LinuxConn struct {
	f   *os.File
	one []byte
}

func (p *LinuxConn) Close() error {
	return p.f.Close()
}

func (p *LinuxConn) Write(data []byte) (int, error) {
	return p.f.Write(data)
}

// Available asks kernel how many bytes are waiting in input queue
func (p *LinuxConn) Available() (int, error) {
	n, err := unix.IoctlGetInt(int(p.f.Fd()), unix.TIOCINQ)
	if err != nil {
		return 0, errors.Wrap(err, "TIOCINQ")
	}
	return n, nil
}

func (p *LinuxConn) ReadByte() (byte, error) {
	n, err := p.f.Read(p.one)
	if err != nil {
		return 0, err
	}
	if n != 1 { //VTIME timeout
		return 0, io.ErrNoProgress
	}
	return p.one[0], nil
}

// Uses fixed settings for PM1006, 9600 8N1
func CreateLinuxSerial(deviceportName string) (*LinuxConn, error) {

	//TESTTED  socat -d -d pty,raw,echo=0 pty,raw,echo=0
	if !strings.HasPrefix(deviceportName, "/dev/pts") { //Avoid issues with testing with socat
		portUsedByPids, _, errPortDetect := listserialports.FileIsInUseByPids(deviceportName)
		if errPortDetect != nil {
			return nil, errors.Wrap(errPortDetect, "serial port error")
		}
		if 0 < len(portUsedByPids) {
			return nil, fmt.Errorf("serial port %v is in use (by PID %#v)", deviceportName, portUsedByPids)
		}
	}

	f, errOpen := os.OpenFile(deviceportName, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0666)
	if errOpen != nil {
		return nil, errors.Wrapf(errOpen, "serial device %v open error", deviceportName)
	}
	result := LinuxConn{f: f, one: make([]byte, 1)}

	//No parity, one stop bit
	t := unix.Termios{
		Iflag:  unix.IGNPAR,
		Cflag:  unix.CREAD | unix.CLOCAL | unix.B9600 | unix.CS8,
		Ispeed: unix.B9600,
		Ospeed: unix.B9600,
	}
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 1 //Desiseconds. Only read when Available said so, should not wait

	fd := int(result.f.Fd())
	if errTermios := unix.IoctlSetTermios(fd, unix.TCSETS, &t); errTermios != nil {
		result.f.Close()
		return nil, errors.Wrap(errTermios, "setting termios")
	}

	if errNonBlock := unix.SetNonblock(fd, false); errNonBlock != nil {
		result.f.Close()
		return nil, errors.Wrap(errNonBlock, "setting nonblock")
	}
	return &result, nil
}
