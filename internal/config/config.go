package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	DBDSN         string
	LogFile       string
	VerifyBaseURL string
	VerifyTimeout time.Duration
	VerifyRetries int
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "bidmarket.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./bidmarket.log"
	}
	verifyURL := os.Getenv("VERIFY_BASE_URL")
	if verifyURL == "" {
		verifyURL = "http://localhost:9090"
	}

	// The ledger call blocks the request, so it always carries a timeout.
	timeout := 5 * time.Second
	if v := os.Getenv("VERIFY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			timeout = d
		}
	}
	retries := 2
	if v := os.Getenv("VERIFY_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			retries = n
		}
	}

	cfg := Config{
		Port:          port,
		DBDSN:         dsn,
		LogFile:       logFile,
		VerifyBaseURL: verifyURL,
		VerifyTimeout: timeout,
		VerifyRetries: retries,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s VERIFY_BASE_URL=%s VERIFY_TIMEOUT=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.VerifyBaseURL, cfg.VerifyTimeout)
	return cfg
}
