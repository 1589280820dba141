package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"murdermystery/internal/sim/catalogs"
	"murdermystery/internal/sim/mansion"
	"murdermystery/internal/sim/tuning"
)

// SQLiteIndex is a queryable secondary index of finished and running
// sessions. Writes go through a single goroutine so the simulation never
// waits on disk; the turn log stays the source of truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropTurn atomic.Uint64
	dropCase atomic.Uint64
}

type reqKind int

const (
	reqTurn reqKind = iota + 1
	reqCase
	reqFlush
)

type req struct {
	kind reqKind

	caseNumber string
	turn       mansion.TurnLogEntry
	caseRow    caseRow
	done       chan struct{}
}

type caseRow struct {
	File    mansion.CaseFile
	Summary mansion.Summary
}

type Stats struct {
	QueueDepth    int
	QueueCapacity int
	DropTurnTotal uint64
	DropCaseTotal uint64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS cases (
			case_number TEXT PRIMARY KEY,
			seed TEXT NOT NULL,
			rows INTEGER NOT NULL,
			cols INTEGER NOT NULL,
			murderer TEXT NOT NULL,
			finished_at INTEGER NOT NULL,
			alive INTEGER NOT NULL,
			murdered INTEGER NOT NULL,
			escaped INTEGER NOT NULL,
			digest TEXT NOT NULL,
			raw_json TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS turns (
			case_number TEXT NOT NULL,
			turn INTEGER NOT NULL,
			minute INTEGER NOT NULL,
			alive INTEGER NOT NULL,
			continues INTEGER NOT NULL,
			digest TEXT NOT NULL,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (case_number, turn)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_minute ON turns(case_number, minute);`,
		`CREATE TABLE IF NOT EXISTS events (
			case_number TEXT NOT NULL,
			turn INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			minute INTEGER NOT NULL,
			kind TEXT NOT NULL,
			player TEXT NOT NULL,
			victim TEXT,
			item TEXT,
			dropped TEXT,
			room TEXT NOT NULL,
			row INTEGER NOT NULL,
			col INTEGER NOT NULL,
			PRIMARY KEY (case_number, turn, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_kind ON events(case_number, kind, turn);`,
		`CREATE TABLE IF NOT EXISTS positions (
			case_number TEXT NOT NULL,
			turn INTEGER NOT NULL,
			minute INTEGER NOT NULL,
			player TEXT NOT NULL,
			room TEXT NOT NULL,
			row INTEGER NOT NULL,
			col INTEGER NOT NULL,
			alive INTEGER NOT NULL,
			item TEXT,
			PRIMARY KEY (case_number, turn, player)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_positions_player ON positions(case_number, player, minute);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:    len(s.ch),
		QueueCapacity: cap(s.ch),
		DropTurnTotal: s.dropTurn.Load(),
		DropCaseTotal: s.dropCase.Load(),
	}
}

// WriteTurn enqueues one turn. It never blocks: when the writer falls
// behind the entry is dropped and counted.
func (s *SQLiteIndex) WriteTurn(caseNumber string, entry mansion.TurnLogEntry) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{kind: reqTurn, caseNumber: caseNumber, turn: entry}:
	default:
		s.dropTurn.Add(1)
	}
	return nil
}

func (s *SQLiteIndex) RecordCase(cf mansion.CaseFile, sum mansion.Summary) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqCase, caseNumber: cf.CaseNumber, caseRow: caseRow{File: cf, Summary: sum}}:
	default:
		s.dropCase.Add(1)
	}
}

// Flush waits until everything queued before the call is committed.
func (s *SQLiteIndex) Flush(ctx context.Context) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	done := make(chan struct{})
	select {
	case s.ch <- req{kind: reqFlush, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SQLiteIndex) UpsertCatalogs(cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	if b, _ := json.Marshal(cats.People.Names); len(b) > 0 {
		rows = append(rows, kv{name: "people", digest: cats.People.Digest, json: b})
	}
	if b, _ := json.Marshal(cats.Rooms.Templates); len(b) > 0 {
		rows = append(rows, kv{name: "rooms", digest: cats.Rooms.Digest, json: b})
	}
	if b, _ := json.Marshal(cats.Items.Items); len(b) > 0 {
		rows = append(rows, kv{name: "items", digest: cats.Items.Digest, json: b})
	}
	{
		b, _ := json.Marshal(tune)
		rows = append(rows, kv{name: "tuning", digest: TuningDigest(tune), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.name == "" || r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// TuningDigest hashes the canonical JSON of the rules actually applied.
func TuningDigest(tune tuning.Tuning) string {
	b, _ := json.Marshal(tune)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertTurn, _ := s.db.Prepare(`INSERT OR REPLACE INTO turns(case_number,turn,minute,alive,continues,digest,raw_json) VALUES(?,?,?,?,?,?,?)`)
	insertEvent, _ := s.db.Prepare(`INSERT OR REPLACE INTO events(case_number,turn,seq,minute,kind,player,victim,item,dropped,room,row,col) VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`)
	insertPos, _ := s.db.Prepare(`INSERT OR REPLACE INTO positions(case_number,turn,minute,player,room,row,col,alive,item) VALUES(?,?,?,?,?,?,?,?,?)`)
	insertCase, _ := s.db.Prepare(`INSERT OR REPLACE INTO cases(case_number,seed,rows,cols,murderer,finished_at,alive,murdered,escaped,digest,raw_json,recorded_at) VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`)
	defer func() {
		for _, st := range []*sql.Stmt{insertTurn, insertEvent, insertPos, insertCase} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 2000
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	exec := func(st *sql.Stmt, args ...any) bool {
		if st == nil || tx == nil {
			return false
		}
		if _, err := tx.Stmt(st).Exec(args...); err != nil {
			rollback()
			return false
		}
		opCount++
		return true
	}

	for r := range s.ch {
		if r.kind == reqFlush {
			commit()
			close(r.done)
			continue
		}
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqTurn:
			e := r.turn
			raw, _ := json.Marshal(e)
			if !exec(insertTurn, r.caseNumber, int64(e.Turn), e.Minute, e.Alive, boolInt(e.Continue), e.Digest, string(raw)) {
				continue
			}
			ok := true
			for i, ev := range e.Events {
				if ok = exec(insertEvent, r.caseNumber, int64(e.Turn), i, ev.Minute, string(ev.Kind), ev.Player,
					nullString(ev.Victim), nullString(ev.Item), nullString(ev.Dropped), ev.Room, ev.Pos[0], ev.Pos[1]); !ok {
					break
				}
			}
			if !ok {
				continue
			}
			for _, p := range e.Players {
				if !exec(insertPos, r.caseNumber, int64(e.Turn), e.Minute, p.Name, p.Room, p.Pos[0], p.Pos[1], boolInt(p.Alive), nullString(p.Item)) {
					break
				}
			}

		case reqCase:
			cf := r.caseRow.File
			raw, _ := json.Marshal(r.caseRow)
			exec(insertCase, cf.CaseNumber, cf.Seed, cf.Dims.Rows, cf.Dims.Cols, cf.Murderer, cf.FinishedAt, cf.Alive,
				r.caseRow.Summary.Murdered, boolInt(r.caseRow.Summary.MurdererEscaped), cf.Digest, string(raw),
				time.Now().UTC().Format(time.RFC3339Nano))
		}
		if tx != nil && (opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait) {
			commit()
		}
	}

	commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
