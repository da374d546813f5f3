package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Oniqq60/staff_control/internal/cfg"
	"github.com/Oniqq60/staff_control/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "staff-control",
	Short:         "Employee and task management API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, notifyCmd, sumCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the process logger.
func bootstrap() (cfg.Config, *zap.Logger, error) {
	conf, err := cfg.Load()
	if err != nil {
		return cfg.Config{}, nil, err
	}
	log, err := logger.New(conf.Env, conf.LogLevel)
	if err != nil {
		return cfg.Config{}, nil, err
	}
	if conf.UsingDevSecret {
		log.Warn("JWT_SECRET is not set, using the development secret")
	}
	return conf, log, nil
}
