package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"murdermystery/internal/persistence/indexdb"
	persistlog "murdermystery/internal/persistence/log"
	"murdermystery/internal/persistence/snapshot"
	"murdermystery/internal/sim/catalogs"
	"murdermystery/internal/sim/mansion"
	"murdermystery/internal/sim/tuning"
	"murdermystery/internal/transport/observer"
)

type sessionConfig struct {
	CaseNumber  string
	ConfigDir   string
	TuningPath  string
	DataDir     string
	DisableDB   bool
	ObserveAddr string
	TurnDelay   time.Duration
}

type sessionResult struct {
	Summary      mansion.Summary
	Turns        int
	FinalDigest  string
	TurnLogPath  string
	CaseFilePath string
}

// runSession plays one case to the end, feeding every turn to the turn
// log, the optional sqlite index and the optional observer hub, then writes
// the case file. Outputs never feed back into the simulation.
func runSession(ctx context.Context, cfg sessionConfig, logger *log.Logger) (sessionResult, error) {
	var res sessionResult

	tune, err := tuning.Load(cfg.TuningPath)
	if err != nil {
		return res, fmt.Errorf("load tuning: %w", err)
	}
	cats, err := catalogs.Load(cfg.ConfigDir)
	if err != nil {
		return res, fmt.Errorf("load catalogs: %w", err)
	}
	m, err := mansion.New(mansion.Config{CaseNumber: cfg.CaseNumber, Rules: tune}, cats)
	if err != nil {
		return res, fmt.Errorf("build mansion: %w", err)
	}
	logger.Printf("case %s: seed=%s mansion=%dx%d players=%d items=%d",
		cfg.CaseNumber, m.Seed(), m.Dims().Rows, m.Dims().Cols, len(m.Players()), len(m.Items()))

	safe := persistlog.SafeName(cfg.CaseNumber)
	res.TurnLogPath = persistlog.TurnLogPath(cfg.DataDir, cfg.CaseNumber)
	res.CaseFilePath = snapshot.CaseFilePath(cfg.DataDir, safe)

	turnLog := persistlog.NewTurnLogger(res.TurnLogPath)
	defer turnLog.Close()
	if err := turnLog.WriteHeader(mansion.SessionHeader{
		CaseNumber:   cfg.CaseNumber,
		Seed:         m.Seed().String(),
		PeopleDigest: cats.People.Digest,
		RoomsDigest:  cats.Rooms.Digest,
		ItemsDigest:  cats.Items.Digest,
		TuningDigest: indexdb.TuningDigest(tune),
		InitDigest:   m.Digest(),
	}); err != nil {
		return res, fmt.Errorf("turn log: %w", err)
	}

	var idx *indexdb.SQLiteIndex
	if !cfg.DisableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(cfg.DataDir, "index", "cases.sqlite"))
		if err != nil {
			return res, fmt.Errorf("open index: %w", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(cats, tune); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
	}

	var hub *observer.Hub
	if cfg.ObserveAddr != "" {
		hub = observer.NewHub(cfg.CaseNumber)
		hub.SetCaseFile(m.CaseFile())
		stopObserver, err := serveObserver(cfg.ObserveAddr, hub, logger)
		if err != nil {
			return res, err
		}
		defer stopObserver()
	}

	for {
		more, err := m.NextTurn()
		if err != nil {
			return res, err
		}
		entry := m.LastTurn()
		res.Turns++
		for _, ev := range entry.Events {
			if ev.Kind == mansion.EventKill {
				logger.Printf("%s: %s found dead in the %s", mansion.Clock(tune.StartHour, ev.Minute), ev.Victim, ev.Room)
			}
		}
		if err := turnLog.WriteTurn(entry); err != nil {
			return res, fmt.Errorf("turn log: %w", err)
		}
		_ = idx.WriteTurn(cfg.CaseNumber, entry)
		if hub != nil {
			if err := hub.Publish(entry, m.CaseFile()); err != nil {
				logger.Printf("observer: %v", err)
			}
		}
		if !more {
			break
		}
		if cfg.TurnDelay > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(cfg.TurnDelay):
			}
		} else if err := ctx.Err(); err != nil {
			return res, err
		}
	}

	res.Summary = m.Summary()
	res.FinalDigest = m.Digest()
	snap := snapshot.New(m)
	if err := snapshot.WriteCaseFile(res.CaseFilePath, snap); err != nil {
		return res, fmt.Errorf("write case file: %w", err)
	}
	if idx != nil {
		idx.RecordCase(snap.Case, snap.Summary)
		fctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := idx.Flush(fctx); err != nil {
			logger.Printf("index: flush: %v", err)
		}
		if st := idx.Stats(); st.DropTurnTotal > 0 || st.DropCaseTotal > 0 {
			logger.Printf("index: dropped turns=%d cases=%d", st.DropTurnTotal, st.DropCaseTotal)
		}
	}
	return res, nil
}

func serveObserver(addr string, hub *observer.Hub, logger *log.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("observer listen: %w", err)
	}
	srv := &http.Server{Handler: observer.NewServer(hub, logger).Handler()}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("observer: %v", err)
		}
	}()
	logger.Printf("observer listening on http://%s/observer/bootstrap", ln.Addr())
	return func() {
		hub.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
