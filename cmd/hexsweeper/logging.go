package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/hexsweeper/internal/config"
	"github.com/vancomm/hexsweeper/internal/mines"
)

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if config.Development() {
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func setupEngineLogging(debug bool, logFile string) error {
	level := logrus.WarnLevel
	if debug {
		level = logrus.DebugLevel
	}
	mines.Log.SetLevel(level)
	mines.Log.SetOutput(os.Stderr)
	mines.Log.SetFormatter(&logrus.TextFormatter{ForceColors: config.Development()})

	if logFile == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   logFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{TimestampFormat: time.RFC3339},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	mines.Log.AddHook(hook)
	return nil
}
