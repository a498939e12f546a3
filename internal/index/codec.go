package index

import (
	"encoding/binary"
	"math"

	"github.com/standardbeagle/tgch/internal/document"
	lcierrors "github.com/standardbeagle/tgch/internal/errors"
)

// encodeDocument serializes a document to the compact binary form stored
// under a d/<id> key. The exact bytes are private to this package; only
// round-tripping through decodeDocument is guaranteed.
func encodeDocument(d *document.Document) []byte {
	fields := d.Fields()
	buf := make([]byte, 0, d.Size()+16)
	buf = appendString(buf, d.ID())
	buf = appendUvarint(buf, uint64(len(fields)))
	for _, f := range fields {
		buf = appendString(buf, f.Name)
		buf = append(buf, byte(f.Value.Kind()))
		switch f.Value.Kind() {
		case document.KindText:
			s, _ := f.Value.Text()
			buf = appendString(buf, s)
		case document.KindInt:
			v, _ := f.Value.Int()
			var tmp [8]byte
			binary.LittleEndian.PutUint64(tmp[:], uint64(v))
			buf = append(buf, tmp[:]...)
		case document.KindFloat:
			v, _ := f.Value.Float()
			var tmp [8]byte
			binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
			buf = append(buf, tmp[:]...)
		case document.KindBool:
			v, _ := f.Value.Bool()
			if v {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		}
	}
	return buf
}

// decodeDocument is the inverse of encodeDocument. A truncated or
// malformed buffer produces a Serialization error rather than a panic.
func decodeDocument(data []byte) (*document.Document, error) {
	r := &byteReader{data: data}
	id, err := r.readString()
	if err != nil {
		return nil, lcierrors.Serialization("decodeDocument", err)
	}
	n, err := r.readUvarint()
	if err != nil {
		return nil, lcierrors.Serialization("decodeDocument", err)
	}
	d := document.New(id)
	for i := uint64(0); i < n; i++ {
		name, err := r.readString()
		if err != nil {
			return nil, lcierrors.Serialization("decodeDocument", err)
		}
		kind, err := r.readByte()
		if err != nil {
			return nil, lcierrors.Serialization("decodeDocument", err)
		}
		switch document.Kind(kind) {
		case document.KindText:
			s, err := r.readString()
			if err != nil {
				return nil, lcierrors.Serialization("decodeDocument", err)
			}
			d.WithField(name, document.Text(s))
		case document.KindInt:
			v, err := r.readUint64()
			if err != nil {
				return nil, lcierrors.Serialization("decodeDocument", err)
			}
			d.WithField(name, document.Int(int64(v)))
		case document.KindFloat:
			v, err := r.readUint64()
			if err != nil {
				return nil, lcierrors.Serialization("decodeDocument", err)
			}
			d.WithField(name, document.Float(math.Float64frombits(v)))
		case document.KindBool:
			b, err := r.readByte()
			if err != nil {
				return nil, lcierrors.Serialization("decodeDocument", err)
			}
			d.WithField(name, document.Bool(b != 0))
		default:
			return nil, lcierrors.Serialization("decodeDocument", errBadKind)
		}
	}
	return d, nil
}

// encodeStringSet serializes a sorted slice of strings, used for both
// postings (document ids) and trigram entries (tokens).
func encodeStringSet(items []string) []byte {
	buf := make([]byte, 0, 16*len(items))
	buf = appendUvarint(buf, uint64(len(items)))
	for _, s := range items {
		buf = appendString(buf, s)
	}
	return buf
}

func decodeStringSet(data []byte) ([]string, error) {
	r := &byteReader{data: data}
	n, err := r.readUvarint()
	if err != nil {
		return nil, lcierrors.Serialization("decodeStringSet", err)
	}
	out := make([]string, 0, n)
	for i := uint64(0); i < n; i++ {
		s, err := r.readString()
		if err != nil {
			return nil, lcierrors.Serialization("decodeStringSet", err)
		}
		out = append(out, s)
	}
	return out, nil
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func appendString(buf []byte, s string) []byte {
	buf = appendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errTruncated
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *byteReader) readUvarint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errTruncated
	}
	r.pos += n
	return v, nil
}

func (r *byteReader) readUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errTruncated
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *byteReader) readString() (string, error) {
	n, err := r.readUvarint()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.data) {
		return "", errTruncated
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}
