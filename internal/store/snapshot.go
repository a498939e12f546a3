package store

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/tgch/internal/backend"
	lcierrors "github.com/standardbeagle/tgch/internal/errors"
)

var snapshotMagic = [4]byte{'T', 'G', 'C', 'H'}

const snapshotVersion = uint16(1)

// saveSnapshot writes every key in b, in ascending key order, to path:
// a 4-byte magic, a 2-byte schema version, the body, and a trailing
// xxhash64 checksum of the body.
func saveSnapshot(b backend.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return lcierrors.IO("SaveToFile", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.Write(snapshotMagic[:]); err != nil {
		return lcierrors.IO("SaveToFile", err)
	}
	var verBuf [2]byte
	binary.BigEndian.PutUint16(verBuf[:], snapshotVersion)
	if _, err := w.Write(verBuf[:]); err != nil {
		return lcierrors.IO("SaveToFile", err)
	}

	h := xxhash.New()
	body := io.MultiWriter(w, h)

	var scanErr error
	err = b.ScanPrefix(nil, func(key, value []byte) bool {
		if werr := writeRecord(body, key, value); werr != nil {
			scanErr = werr
			return false
		}
		return true
	})
	if err != nil {
		return lcierrors.Backend("SaveToFile", err)
	}
	if scanErr != nil {
		return lcierrors.IO("SaveToFile", scanErr)
	}

	var sumBuf [8]byte
	binary.BigEndian.PutUint64(sumBuf[:], h.Sum64())
	if _, err := w.Write(sumBuf[:]); err != nil {
		return lcierrors.IO("SaveToFile", err)
	}
	if err := w.Flush(); err != nil {
		return lcierrors.IO("SaveToFile", err)
	}
	return nil
}

func writeRecord(w io.Writer, key, value []byte) error {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(key)))
	if _, err := w.Write(lenBuf[:n]); err != nil {
		return err
	}
	if _, err := w.Write(key); err != nil {
		return err
	}
	n = binary.PutUvarint(lenBuf[:], uint64(len(value)))
	if _, err := w.Write(lenBuf[:n]); err != nil {
		return err
	}
	if _, err := w.Write(value); err != nil {
		return err
	}
	return nil
}

// loadSnapshot reads a file written by saveSnapshot and replays its
// records into b as a single batch.
func loadSnapshot(b backend.Store, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return lcierrors.IO("OpenFile", err)
	}
	if len(raw) < 4+2+8 {
		return lcierrors.Corruption("OpenFile", io.ErrUnexpectedEOF)
	}
	if [4]byte(raw[:4]) != snapshotMagic {
		return lcierrors.Corruption("OpenFile", errBadMagic)
	}
	version := binary.BigEndian.Uint16(raw[4:6])
	if version != snapshotVersion {
		return lcierrors.Serialization("OpenFile", errUnsupportedVersion)
	}

	body := raw[6 : len(raw)-8]
	wantSum := binary.BigEndian.Uint64(raw[len(raw)-8:])
	if xxhash.Sum64(body) != wantSum {
		return lcierrors.Corruption("OpenFile", errChecksumMismatch)
	}

	writes, err := decodeRecords(body)
	if err != nil {
		return err
	}
	if err := backend.ApplyBatch(b, writes); err != nil {
		return err
	}
	return nil
}

func decodeRecords(body []byte) ([]backend.Write, error) {
	var writes []backend.Write
	pos := 0
	for pos < len(body) {
		key, n, err := readSnapshotField(body[pos:])
		if err != nil {
			return nil, lcierrors.Corruption("OpenFile", err)
		}
		pos += n
		value, n, err := readSnapshotField(body[pos:])
		if err != nil {
			return nil, lcierrors.Corruption("OpenFile", err)
		}
		pos += n
		writes = append(writes, backend.Write{Key: key, Value: value})
	}
	return writes, nil
}

func readSnapshotField(data []byte) ([]byte, int, error) {
	l, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, 0, errTruncatedSnapshot
	}
	start := n
	end := start + int(l)
	if end > len(data) {
		return nil, 0, errTruncatedSnapshot
	}
	return data[start:end], end, nil
}
