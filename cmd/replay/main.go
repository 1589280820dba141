package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	persistlog "murdermystery/internal/persistence/log"
)

func main() {
	var (
		logPath    = flag.String("log", "", "path to turns.jsonl.zst")
		dataDir    = flag.String("data", "./data", "runtime data directory (used with -case)")
		caseNumber = flag.String("case", "", "case number whose turn log to verify (when -log is empty)")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
	)
	flag.Parse()

	path := strings.TrimSpace(*logPath)
	if path == "" {
		if strings.TrimSpace(*caseNumber) == "" {
			fmt.Fprintln(os.Stderr, "missing -log or -case")
			os.Exit(2)
		}
		path = persistlog.TurnLogPath(*dataDir, *caseNumber)
	}
	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}

	rep, err := replayLog(path, *configDir, tp)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("replay ok: case=%s checked=%d turns final=%s\n", rep.CaseNumber, rep.Checked, rep.FinalDigest)
}
