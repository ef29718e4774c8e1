package service

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/resumid-ai/resumid/app/core"
	v1 "github.com/resumid-ai/resumid/app/logic/v1"
	"github.com/resumid-ai/resumid/pkg/safe"
	"github.com/resumid-ai/resumid/pkg/utils"
)

type Options struct {
	ConfigPath string
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init api by given config")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "resume retrieval service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(opts *Options) error {
	utils.SetupIDWorker(1)
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	startCleanupCron(app)
	serve(app)

	return nil
}

func startCleanupCron(app *core.Core) {
	if !app.Cfg().Cleanup.Enabled {
		return
	}

	c := cron.New()
	spec := app.Cfg().Cleanup.CronSpec()
	_, err := c.AddFunc(spec, func() {
		safe.Run(func() {
			report, err := v1.NewCleanupLogic(context.Background(), app).Sweep()
			if err != nil {
				slog.Error("cleanup sweep failed", slog.String("error", err.Error()))
				return
			}
			slog.Info("cleanup sweep finished",
				slog.Int("sources_scanned", report.SourcesScanned),
				slog.Int("sources_removed", report.SourcesRemoved))
		})
	})
	if err != nil {
		slog.Error("failed to schedule cleanup job", slog.String("spec", spec), slog.String("error", err.Error()))
		return
	}
	c.Start()
	slog.Info("cleanup job scheduled", slog.String("spec", spec))
}
