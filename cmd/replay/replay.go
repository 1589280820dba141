package main

import (
	"fmt"

	"murdermystery/internal/persistence/indexdb"
	persistlog "murdermystery/internal/persistence/log"
	"murdermystery/internal/sim/catalogs"
	"murdermystery/internal/sim/mansion"
	"murdermystery/internal/sim/tuning"
)

type replayReport struct {
	CaseNumber  string
	Checked     int
	FinalDigest string
}

// replayLog rebuilds the mansion named in the log header and steps it,
// comparing every recorded digest with the recomputed one.
func replayLog(path, configDir, tuningPath string) (replayReport, error) {
	var rep replayReport

	hdr, entries, err := persistlog.ReadTurnLog(path)
	if err != nil {
		return rep, err
	}
	rep.CaseNumber = hdr.CaseNumber

	cats, err := catalogs.Load(configDir)
	if err != nil {
		return rep, fmt.Errorf("load catalogs: %w", err)
	}
	tune, err := tuning.Load(tuningPath)
	if err != nil {
		return rep, fmt.Errorf("load tuning: %w", err)
	}
	for _, c := range []struct{ name, want, got string }{
		{"people.in", hdr.PeopleDigest, cats.People.Digest},
		{"rooms.in", hdr.RoomsDigest, cats.Rooms.Digest},
		{"items.in", hdr.ItemsDigest, cats.Items.Digest},
		{"tuning", hdr.TuningDigest, indexdb.TuningDigest(tune)},
	} {
		if c.want != "" && c.want != c.got {
			return rep, fmt.Errorf("%s differs from the one the log was recorded with", c.name)
		}
	}

	m, err := mansion.New(mansion.Config{CaseNumber: hdr.CaseNumber, Rules: tune}, cats)
	if err != nil {
		return rep, fmt.Errorf("build mansion: %w", err)
	}
	if hdr.InitDigest != "" && hdr.InitDigest != m.Digest() {
		return rep, fmt.Errorf("initial digest mismatch: got=%s want=%s", m.Digest(), hdr.InitDigest)
	}

	for _, entry := range entries {
		if m.Over() {
			return rep, fmt.Errorf("log continues after the session ended (turn %d)", entry.Turn)
		}
		more, err := m.NextTurn()
		if err != nil {
			return rep, fmt.Errorf("turn %d: %w", entry.Turn, err)
		}
		got := m.LastTurn()
		if got.Turn != entry.Turn {
			return rep, fmt.Errorf("turn mismatch: want=%d got=%d", entry.Turn, got.Turn)
		}
		if got.Digest != entry.Digest {
			return rep, fmt.Errorf("digest mismatch at turn %d (minute %d): got=%s want=%s", entry.Turn, entry.Minute, got.Digest, entry.Digest)
		}
		if more != entry.Continue {
			return rep, fmt.Errorf("turn %d: continue=%v, log says %v", entry.Turn, more, entry.Continue)
		}
		rep.Checked++
	}
	rep.FinalDigest = m.Digest()
	return rep, nil
}
