// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"

	"github.com/ik5/mediakit"
	"github.com/ik5/mediakit/config"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var (
	cfgFile string
	tracing bool
	cfg     config.Config
	tp      *sdktrace.TracerProvider
)

var rootCmd = &cobra.Command{
	Use:          "mediakit",
	Short:        "Load, play and save media",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		if tracing {
			exp, err := stdouttrace.New(stdouttrace.WithWriter(cmd.ErrOrStderr()), stdouttrace.WithPrettyPrint())
			if err != nil {
				return fmt.Errorf("trace exporter: %w", err)
			}
			tp = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
			otel.SetTracerProvider(tp)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if tp == nil {
			return nil
		}
		err := tp.Shutdown(context.Background())
		tp = nil
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().BoolVar(&tracing, "trace", false, "print fetch and decode spans to stderr")
}

func newKit(opts ...mediakit.Option) (*mediakit.Kit, error) {
	kit, err := mediakit.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialising: %w", err)
	}
	return kit, nil
}
