package quantization

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// RecordSize is the fixed width of an encoded Record in bytes.
// The fields occupy six bytes; the last two are reserved and written as zero
// so that records stay 8-byte aligned.
const RecordSize = 8

var recordPadding = [RecordSize - 6]byte{}

// ErrRecordSize is returned when a buffer does not hold exactly one record.
var ErrRecordSize = errors.New("invalid record length")

// Record is one quantized photon without its owning bin.
//
// Layout (little-endian): [x_rest u8][y_rest u8][cx_bin u16][cy_bin u16][reserved 2]
type Record struct {
	XRest uint8
	YRest uint8
	CXBin uint16
	CYBin uint16
}

// AppendTo appends the little-endian encoding of r to dst.
func (r Record) AppendTo(dst []byte) []byte {
	dst = append(dst, r.XRest, r.YRest)
	dst = binary.LittleEndian.AppendUint16(dst, r.CXBin)
	dst = binary.LittleEndian.AppendUint16(dst, r.CYBin)
	return append(dst, recordPadding[:]...)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r Record) MarshalBinary() ([]byte, error) {
	return r.AppendTo(make([]byte, 0, RecordSize)), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *Record) UnmarshalBinary(data []byte) error {
	rec, err := ParseRecord(data)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// ParseRecord decodes exactly one record from p.
func ParseRecord(p []byte) (Record, error) {
	if len(p) != RecordSize {
		return Record{}, fmt.Errorf("%w: want %d bytes, got %d", ErrRecordSize, RecordSize, len(p))
	}
	return readRecord(p), nil
}

// ForEachRecord calls fn for every record in data in order.
// data must be a whole number of records.
func ForEachRecord(data []byte, fn func(Record)) error {
	if len(data)%RecordSize != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrRecordSize, len(data), RecordSize)
	}
	for off := 0; off < len(data); off += RecordSize {
		fn(readRecord(data[off : off+RecordSize]))
	}
	return nil
}

func readRecord(p []byte) Record {
	_ = p[RecordSize-1]
	return Record{
		XRest: p[0],
		YRest: p[1],
		CXBin: binary.LittleEndian.Uint16(p[2:4]),
		CYBin: binary.LittleEndian.Uint16(p[4:6]),
	}
}
