package render

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/OCharnyshevich/minecraft-renderer/internal/mesh"
)

// DumpDevice records every buffer created through it into a zstd stream
// and forwards creation to an inner Device. Each record is:
// usage u8, label length u16, label, data length u32, data (little-endian).
type DumpDevice struct {
	inner mesh.Device
	enc   *zstd.Encoder
	w     *bufio.Writer
	err   error

	Records int
}

// NewDumpDevice wraps inner and writes records to w.
func NewDumpDevice(inner mesh.Device, w io.Writer) (*DumpDevice, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("create zstd writer: %w", err)
	}
	return &DumpDevice{
		inner: inner,
		enc:   enc,
		w:     bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// CreateBuffer records contents and creates the buffer on the inner device.
// Write failures are kept and reported by Err and Close.
func (d *DumpDevice) CreateBuffer(label string, usage mesh.BufferUsage, contents []byte) mesh.Buffer {
	if d.err == nil {
		d.err = d.writeRecord(label, usage, contents)
	}
	return d.inner.CreateBuffer(label, usage, contents)
}

func (d *DumpDevice) writeRecord(label string, usage mesh.BufferUsage, contents []byte) error {
	var hdr [3]byte
	hdr[0] = byte(usage)
	binary.LittleEndian.PutUint16(hdr[1:], uint16(len(label)))
	if _, err := d.w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := d.w.WriteString(label); err != nil {
		return err
	}
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(contents)))
	if _, err := d.w.Write(size[:]); err != nil {
		return err
	}
	if _, err := d.w.Write(contents); err != nil {
		return err
	}
	d.Records++
	return nil
}

// Err returns the first write error.
func (d *DumpDevice) Err() error { return d.err }

// Close flushes the stream. It does not close the underlying writer.
func (d *DumpDevice) Close() error {
	flushErr := d.w.Flush()
	closeErr := d.enc.Close()
	return errors.Join(d.err, flushErr, closeErr)
}

// DumpRecord is one buffer read back from a dump.
type DumpRecord struct {
	Label string
	Usage mesh.BufferUsage
	Data  []byte
}

// ReadDump decodes every record of a dump stream.
func ReadDump(r io.Reader) ([]DumpRecord, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	var out []DumpRecord
	for {
		var hdr [3]byte
		if _, err := io.ReadFull(br, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("read record header: %w", err)
		}
		label := make([]byte, binary.LittleEndian.Uint16(hdr[1:]))
		if _, err := io.ReadFull(br, label); err != nil {
			return out, fmt.Errorf("read record label: %w", err)
		}
		var size [4]byte
		if _, err := io.ReadFull(br, size[:]); err != nil {
			return out, fmt.Errorf("read record size: %w", err)
		}
		data := make([]byte, binary.LittleEndian.Uint32(size[:]))
		if _, err := io.ReadFull(br, data); err != nil {
			return out, fmt.Errorf("read record data: %w", err)
		}
		out = append(out, DumpRecord{Label: string(label), Usage: mesh.BufferUsage(hdr[0]), Data: data})
	}
}
