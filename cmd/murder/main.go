package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
)

func main() {
	var (
		caseNumber = flag.String("case", "", "case number (prompted on stdin when empty)")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite case index")
		observe    = flag.String("observe", "", "observer listen address, e.g. 127.0.0.1:8081 (empty to disable)")
		turnDelay  = flag.Duration("turn_delay", 0, "pause between turns (useful with -observe)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[murder] ", log.LstdFlags|log.Lmicroseconds)

	cn := strings.TrimSpace(*caseNumber)
	if cn == "" {
		var err error
		if cn, err = promptCaseNumber(); err != nil {
			logger.Fatalf("read case number: %v", err)
		}
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := runSession(ctx, sessionConfig{
		CaseNumber:  cn,
		ConfigDir:   *configDir,
		TuningPath:  tp,
		DataDir:     *dataDir,
		DisableDB:   *disableDB,
		ObserveAddr: strings.TrimSpace(*observe),
		TurnDelay:   *turnDelay,
	}, logger)
	if err != nil {
		logger.Fatalf("session: %v", err)
	}

	verdict := "The murderer was caught."
	if res.Summary.MurdererEscaped {
		verdict = "The murderer got away."
	}
	logger.Printf("case %s closed at %s: %d murdered. %s", cn, res.Summary.Clock, res.Summary.Murdered, verdict)
	logger.Printf("turn log: %s", res.TurnLogPath)
	logger.Printf("case file: %s", res.CaseFilePath)
}

func promptCaseNumber() (string, error) {
	fmt.Print("Enter case number: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("empty case number")
	}
	return line, nil
}
