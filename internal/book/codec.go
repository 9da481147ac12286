package book

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// On-disk / embedded format: a single flag byte, then a little-endian
// uint32 record count, then that many 9-byte (uint64 key, int8 value)
// records. When flag is formatZstd the remainder (count + records) is
// zstd-compressed; when it is formatRaw it is stored as-is. This is the
// narrowest correct encoding for a bare map[uint64]int8 — no struct or
// schema to describe, so there is no serde/protobuf-shaped library in the
// retrieved pack that applies here (see DESIGN.md); the compression layer,
// where a real library is exercised, is what makes the format compact.
const (
	formatRaw byte = iota
	formatZstd
)

const recordSize = 8 + 1 // uint64 key + int8 value

// encode flattens m into the on-disk record format, optionally compressing
// it with zstd.
func encode(m map[uint64]int8, compress bool) ([]byte, error) {
	buf := make([]byte, 4, 4+len(m)*recordSize)
	binary.LittleEndian.PutUint32(buf, uint32(len(m)))
	for key, value := range m {
		var record [recordSize]byte
		binary.LittleEndian.PutUint64(record[:8], key)
		record[8] = byte(value)
		buf = append(buf, record[:]...)
	}

	if !compress {
		return append([]byte{formatRaw}, buf...), nil
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating zstd encoder")
	}
	defer encoder.Close()
	compressed := encoder.EncodeAll(buf, make([]byte, 0, len(buf)))
	return append([]byte{formatZstd}, compressed...), nil
}

// decode parses bytes produced by encode back into a map.
func decode(data []byte) (map[uint64]int8, error) {
	if len(data) == 0 {
		return nil, errors.New("opening book data is empty")
	}

	format, body := data[0], data[1:]
	switch format {
	case formatZstd:
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, errors.Wrap(err, "creating zstd decoder")
		}
		defer decoder.Close()
		decompressed, err := decoder.DecodeAll(body, nil)
		if err != nil {
			return nil, errors.Wrap(err, "decompressing opening book")
		}
		body = decompressed
	case formatRaw:
		// body is already the raw record stream
	default:
		return nil, errors.Errorf("unrecognised opening book format byte %d", format)
	}

	if len(body) < 4 {
		return nil, errors.New("opening book data is truncated")
	}
	count := binary.LittleEndian.Uint32(body[:4])
	body = body[4:]
	if uint64(len(body)) != uint64(count)*recordSize {
		return nil, errors.Errorf("opening book record count %d does not match data length %d", count, len(body))
	}

	m := make(map[uint64]int8, count)
	r := bytes.NewReader(body)
	var record [recordSize]byte
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, record[:]); err != nil {
			return nil, errors.Wrap(err, "reading opening book record")
		}
		key := binary.LittleEndian.Uint64(record[:8])
		m[key] = int8(record[8])
	}
	return m, nil
}
