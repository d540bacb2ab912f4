package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/urfave/cli/v2"

	"github.com/guilherme-santos/calmeetings/calendar"
	"github.com/guilherme-santos/calmeetings/calendar/google"
	"github.com/guilherme-santos/calmeetings/calendar/outlook"
	"github.com/guilherme-santos/calmeetings/internal"
	"github.com/guilherme-santos/calmeetings/internal/aggregator"
	"github.com/guilherme-santos/calmeetings/internal/bearer"
	"github.com/guilherme-santos/calmeetings/internal/config"
	"github.com/guilherme-santos/calmeetings/internal/sqlite"
)

type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newApp(c *cli.Context) (*app, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		logger: internal.NewLogger(os.Stderr, cfg.LogLevel),
	}, nil
}

func (a *app) newMux() (*calendar.Mux, error) {
	httpClient := bearer.NewHTTPClient(a.cfg.RequestTimeout.Duration)
	return calendar.NewMux(
		google.NewClient(httpClient, a.cfg.Google.BaseURL),
		outlook.NewClient(httpClient, a.cfg.Outlook.BaseURL),
	)
}

func (a *app) newAggregator() (*aggregator.Aggregator, error) {
	mux, err := a.newMux()
	if err != nil {
		return nil, err
	}
	return aggregator.New(a.logger, mux, aggregator.Options{
		Timeout:    a.cfg.RequestTimeout.Duration,
		Workers:    a.cfg.Workers,
		RateLimits: a.cfg.RateLimits(),
	}), nil
}

func (a *app) openStorage() (*sqlite.Storage, error) {
	s, err := sqlite.Open(a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", a.cfg.Database, err)
	}
	return s, nil
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}
