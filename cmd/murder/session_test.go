package main

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"murdermystery/internal/persistence/indexdb"
	persistlog "murdermystery/internal/persistence/log"
	"murdermystery/internal/persistence/snapshot"
)

func TestRunSession_WritesArtifacts(t *testing.T) {
	dataDir := t.TempDir()
	cfg := sessionConfig{
		CaseNumber: "100",
		ConfigDir:  filepath.Join("..", "..", "configs"),
		TuningPath: filepath.Join("..", "..", "configs", "tuning.yaml"),
		DataDir:    dataDir,
	}
	res, err := runSession(context.Background(), cfg, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("runSession: %v", err)
	}
	if res.Turns != 58 || res.Summary.Clock != "10:45pm" || res.Summary.Murdered != 5 || !res.Summary.MurdererEscaped {
		t.Fatalf("result: %+v", res)
	}

	hdr, entries, err := persistlog.ReadTurnLog(res.TurnLogPath)
	if err != nil {
		t.Fatalf("read turn log: %v", err)
	}
	if hdr.CaseNumber != "100" || hdr.Seed != "494848" || len(entries) != 58 {
		t.Fatalf("turn log: header=%+v entries=%d", hdr, len(entries))
	}

	cf, err := snapshot.ReadCaseFile(res.CaseFilePath)
	if err != nil {
		t.Fatalf("read case file: %v", err)
	}
	if cf.Case.Digest != res.FinalDigest || cf.Case.Murderer != "Monsieur Verde" {
		t.Fatalf("case file: %+v", cf.Header)
	}

	idx, err := indexdb.OpenSQLite(filepath.Join(dataDir, "index", "cases.sqlite"))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer idx.Close()
	c, ok, err := idx.Case("100")
	if err != nil || !ok || c.Digest != res.FinalDigest || c.FinishedAt != 285 {
		t.Fatalf("indexed case: %+v ok=%v err=%v", c, ok, err)
	}
	d, ok, err := idx.DeathOf("100", "Sir Ube")
	if err != nil || !ok || d.Minute != 280 || d.Room != "Attic" || d.Item != "Scalpel" {
		t.Fatalf("DeathOf: %+v ok=%v err=%v", d, ok, err)
	}
}

func TestRunSession_Errors(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	base := sessionConfig{
		CaseNumber: "1",
		ConfigDir:  filepath.Join("..", "..", "configs"),
		TuningPath: filepath.Join("..", "..", "configs", "tuning.yaml"),
		DataDir:    t.TempDir(),
		DisableDB:  true,
	}

	bad := base
	bad.TuningPath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := runSession(context.Background(), bad, logger); err == nil {
		t.Fatalf("expected tuning error")
	}

	bad = base
	bad.ConfigDir = t.TempDir()
	if _, err := runSession(context.Background(), bad, logger); err == nil {
		t.Fatalf("expected catalogs error")
	}

	bad = base
	bad.CaseNumber = ""
	if _, err := runSession(context.Background(), bad, logger); err == nil {
		t.Fatalf("expected case number error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runSession(ctx, base, logger); err != context.Canceled {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
