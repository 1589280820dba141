package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"murdermystery/internal/sim/mansion"
)

// JSONLZstdWriter appends JSON lines to a single zstd-compressed file,
// opening it lazily on the first write.
type JSONLZstdWriter struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func NewJSONLZstdWriter(path string) *JSONLZstdWriter {
	return &JSONLZstdWriter{path: path}
}

func (w *JSONLZstdWriter) Path() string { return w.path }

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		if err := w.openLocked(); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *JSONLZstdWriter) openLocked() error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 128*1024)
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err1
}

// TurnLogPath is where a session's turn log lives under dataDir.
func TurnLogPath(dataDir, caseNumber string) string {
	return filepath.Join(dataDir, "cases", SafeName(caseNumber), "turns.jsonl.zst")
}

// SafeName maps a case number to a file-system friendly directory name.
func SafeName(caseNumber string) string {
	out := []rune(caseNumber)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			out[i] = '_'
		}
	}
	if len(out) == 0 || string(out) == "." || string(out) == ".." {
		return "_"
	}
	return string(out)
}

// TurnLogger writes the session header followed by one JSONL entry per turn.
type TurnLogger struct{ w *JSONLZstdWriter }

func NewTurnLogger(path string) *TurnLogger {
	return &TurnLogger{w: NewJSONLZstdWriter(path)}
}

func (l *TurnLogger) WriteHeader(h mansion.SessionHeader) error {
	h.Type = "HEADER"
	return l.w.Write(h)
}

func (l *TurnLogger) WriteTurn(v mansion.TurnLogEntry) error { return l.w.Write(v) }
func (l *TurnLogger) Close() error                           { return l.w.Close() }

// ReadTurnLog reads a log written by TurnLogger.
func ReadTurnLog(path string) (mansion.SessionHeader, []mansion.TurnLogEntry, error) {
	var hdr mansion.SessionHeader
	f, err := os.Open(path)
	if err != nil {
		return hdr, nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return hdr, nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return hdr, nil, err
		}
		return hdr, nil, fmt.Errorf("%s: empty turn log", filepath.Base(path))
	}
	if err := json.Unmarshal(sc.Bytes(), &hdr); err != nil {
		return hdr, nil, fmt.Errorf("%s: header: %w", filepath.Base(path), err)
	}
	if hdr.Type != "HEADER" {
		return hdr, nil, fmt.Errorf("%s: first line is not a header", filepath.Base(path))
	}

	var entries []mansion.TurnLogEntry
	for sc.Scan() {
		var e mansion.TurnLogEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return hdr, entries, fmt.Errorf("%s: line %d: %w", filepath.Base(path), len(entries)+2, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return hdr, entries, err
	}
	return hdr, entries, nil
}
