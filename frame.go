/*
For unpacking and packing PM1006 frames

Sensor -> host frame is 20 bytes
16 11 0B DF1 DF2 ... DF16 CS

- Header is ALWAYS 0x16 0x11 0x0B
- PM2.5 is DF3 (MSB) DF4 (LSB)
- Sum of all 20 bytes is zero (mod 256)
- No length field, no terminator
*/

package pm1006

import (
	"fmt"
)

const (
	PM1006FRAMESIZE    = 20 //What sensor sends
	PM1006CHECKSUMSPAN = 20 //Bytes covered by checksum, starting from header
)

const (
	PM1006HEADER0 = 0x16
	PM1006HEADER1 = 0x11
	PM1006HEADER2 = 0x0B
)

const (
	PM25OFFSETMSB = 5 //DF3
	PM25OFFSETLSB = 6 //DF4
)

var pm1006Header = []byte{PM1006HEADER0, PM1006HEADER1, PM1006HEADER2}

func ValidHeader(buf []byte) bool {
	if len(buf) < len(pm1006Header) {
		return false
	}
	return buf[0] == PM1006HEADER0 && buf[1] == PM1006HEADER1 && buf[2] == PM1006HEADER2
}

// Checksum sums first PM1006CHECKSUMSPAN bytes. Valid frame gives zero
func Checksum(buf []byte) byte {
	n := PM1006CHECKSUMSPAN
	if len(buf) < n {
		n = len(buf)
	}
	var result byte
	for _, b := range buf[0:n] {
		result += b
	}
	return result
}

// Short buffers never pass. Missing bytes would be zeros in scratch buffer anyway
func ValidChecksum(buf []byte) bool {
	return PM1006CHECKSUMSPAN <= len(buf) && Checksum(buf) == 0
}

func ExtractPM25(buf []byte) uint16 {
	if len(buf) <= PM25OFFSETLSB {
		return 0
	}
	return uint16(buf[PM25OFFSETMSB])<<8 | uint16(buf[PM25OFFSETLSB])
}

/*
NewFrame creates valid frame. Used by simulator and tests.
Other data fields are zero (sensor puts PM1.0 and PM10 there on some variants)
*/
func NewFrame(pm25 uint16) []byte {
	result := make([]byte, PM1006FRAMESIZE)
	copy(result, pm1006Header)
	result[PM25OFFSETMSB] = byte(pm25 >> 8)
	result[PM25OFFSETLSB] = byte(pm25 & 0xFF)
	result[PM1006FRAMESIZE-1] = -Checksum(result[0 : PM1006FRAMESIZE-1])
	return result
}

func FrameToDebugText(frame []byte) string { //Like in datasheet
	result := fmt.Sprintf("--- PM1006 frame (%v bytes) ---\n", len(frame))
	for index, v := range frame {
		name := ""
		switch {
		case index < len(pm1006Header):
			name = "head"
		case index == PM1006FRAMESIZE-1:
			name = "CS"
		case index < PM1006FRAMESIZE-1:
			name = fmt.Sprintf("DF%v", index-len(pm1006Header)+1)
		}
		result += fmt.Sprintf("[%v]=%02X %s\n", index, v, name)
	}
	return result + fmt.Sprintf("sum=%02X pm2.5=%v\n-----------\n", Checksum(frame), ExtractPM25(frame))
}
