package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"aitsclient/internal/client/config"
	"aitsclient/pkg/logger"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "AITS_LOGGER_MODE"
	EnvLoggerLevel = "AITS_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitRuntime          = "failed to initialize client"
	ErrCommandFailed        = "command failed"
	ErrWriteMetrics         = "failed to write metrics file"
	ErrShutdown             = "failed to release client resources"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("aits"),
		kong.Description("Command line client for the Academic Issue Tracking System."),
		kong.UsageOnError(),
	)

	env := logger.ParseEnvironment(os.Getenv(EnvLoggerMode))
	level := os.Getenv(EnvLoggerLevel)
	if level == "" {
		level = "warn"
	}

	log, err := logger.NewLogger(env, level)
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}
	logger.SetGlobalLogger(log)

	ctx, stop := signal.NotifyContext(logger.NewRequestIDContext(context.Background(), ""), os.Interrupt, syscall.SIGTERM)

	var exitCode int

	func() {
		defer stop()
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx, cli.EnvFile)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}
		cli.apply(cfg)

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		rt, err := NewRuntime(ctx, cfg, os.Stdout, cli.MetricsFile != "")
		if err != nil {
			log.Error(ctx, ErrInitRuntime, zap.Error(err))
			exitCode = 1
			return
		}
		defer func() {
			if err := rt.Shutdown(cfg.Shutdown.Timeout); err != nil {
				log.Warn(ctx, ErrShutdown, zap.Error(err))
			}
		}()

		if err := kctx.Run(rt); err != nil {
			log.Debug(ctx, ErrCommandFailed, zap.Error(err))
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			exitCode = 1
		}

		if cli.MetricsFile != "" {
			if err := rt.WriteMetrics(cli.MetricsFile); err != nil {
				log.Error(ctx, ErrWriteMetrics, zap.Error(err))
				exitCode = 1
			}
		}
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
