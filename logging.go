package main

import (
	"log"
	"os"

	"github.com/hashicorp/go-hclog"
)

const defaultLogLevel = "warn"

var logger hclog.Logger

// setupLogging routes the standard logger through hclog, which picks the level of each
// line from its "[LEVEL]" prefix. Logs go to stderr; stdout carries build tool directives
func setupLogging() {
	logger = hclog.New(&hclog.LoggerOptions{
		Name:       "pgsysgen",
		Level:      hclog.LevelFromString(defaultLogLevel),
		Output:     os.Stderr,
		TimeFormat: "2006-01-02 15:04:05.000",
	})
	log.SetOutput(logger.StandardWriter(&hclog.StandardLoggerOptions{InferLevels: true}))
	log.SetPrefix("")
	log.SetFlags(0)
}

func setLogLevel(level string) {
	if logger == nil {
		return
	}
	l := hclog.LevelFromString(level)
	if l == hclog.NoLevel {
		log.Printf("[WARN] unknown log level '%s', using %s", level, defaultLogLevel)
		l = hclog.LevelFromString(defaultLogLevel)
	}
	logger.SetLevel(l)
}
