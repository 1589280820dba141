package snapshot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"murdermystery/internal/sim/mansion"
)

const Version = 1

// Header is the first (uncompressed-JSON) line inside the zstd frame, so
// tools can identify a case file without decoding the body.
type Header struct {
	Version    int    `json:"version"`
	CaseNumber string `json:"case_number"`
	Minutes    int    `json:"minutes"`
	Digest     string `json:"digest"`
}

type CaseFileV1 struct {
	Header  Header           `json:"header"`
	Case    mansion.CaseFile `json:"case"`
	Summary mansion.Summary  `json:"summary"`
}

func New(m *mansion.Mansion) CaseFileV1 {
	cf := m.CaseFile()
	return CaseFileV1{
		Header: Header{
			Version:    Version,
			CaseNumber: cf.CaseNumber,
			Minutes:    cf.Minutes,
			Digest:     cf.Digest,
		},
		Case:    cf,
		Summary: m.Summary(),
	}
}

// CaseFilePath is where a session's case file lives under dataDir.
func CaseFilePath(dataDir, safeCase string) string {
	return filepath.Join(dataDir, "cases", safeCase, "casefile.json.zst")
}

// WriteCaseFile writes to a temp file next to path and renames it into place.
func WriteCaseFile(path string, snap CaseFileV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".casefile-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := encode(tmp, snap); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func encode(f *os.File, snap CaseFileV1) error {
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := json.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return enc.Close()
}

func ReadCaseFile(path string) (CaseFileV1, error) {
	var snap CaseFileV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// The body repeats the header.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if err := json.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("json decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("unsupported case file version %d", snap.Header.Version)
	}
	return snap, nil
}
