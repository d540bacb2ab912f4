package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/guilherme-santos/calmeetings/internal"
	"github.com/guilherme-santos/calmeetings/internal/aggregator"
	"github.com/guilherme-santos/calmeetings/internal/sqlite"
)

func meetingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "meetings",
		Usage: "Print the meetings of the given accounts or tokens.",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "account", Aliases: []string{"a"}, Usage: "saved account (provider/name), repeatable"},
			&cli.StringFlag{Name: "google-token", Usage: "Google access token", EnvVars: []string{"GOOGLE_TOKEN"}},
			&cli.StringFlag{Name: "outlook-token", Usage: "Outlook access token", EnvVars: []string{"OUTLOOK_TOKEN"}},
			&cli.GenericFlag{Name: "from", Value: &internal.Timestamp{}, Usage: "keep meetings starting at or after (e.g. 2025-03-06)"},
			&cli.GenericFlag{Name: "to", Value: &internal.Timestamp{}, Usage: "keep meetings starting at or before, a date covers the whole day"},
			&cli.BoolFlag{Name: "json", Usage: "print the result as JSON"},
		},
		Action: listMeetings,
	}
}

func listMeetings(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}

	from := c.Generic("from").(*internal.Timestamp)
	to := c.Generic("to").(*internal.Timestamp)
	r := internal.DateRange{Start: from.Time, End: to.EndOfDay()}
	if err := r.Validate(); err != nil {
		return err
	}

	var (
		queries  []aggregator.Query
		accounts []*internal.Account
		storage  *sqlite.Storage
	)
	if ids := c.StringSlice("account"); len(ids) > 0 {
		storage, err = a.openStorage()
		if err != nil {
			return err
		}
		defer storage.Close()

		for _, id := range ids {
			acc, err := storage.Account(c.Context, id)
			if err != nil {
				return err
			}
			token, err := acc.AccessToken()
			if err != nil {
				return err
			}
			queries = append(queries, aggregator.Query{Provider: acc.Platform, Token: token})
			accounts = append(accounts, acc)
		}
	}
	if tok := c.String("google-token"); tok != "" {
		queries = append(queries, aggregator.Query{Provider: internal.Google, Token: tok})
	}
	if tok := c.String("outlook-token"); tok != "" {
		queries = append(queries, aggregator.Query{Provider: internal.Outlook, Token: tok})
	}
	if len(queries) == 0 {
		return errors.New("nothing to read: give --account, --google-token or --outlook-token")
	}

	agg, err := a.newAggregator()
	if err != nil {
		return err
	}
	res, err := agg.Meetings(c.Context, aggregator.Request{Queries: queries, Range: r})

	// Reports follow the order of the queries, accounts come first.
	now := time.Now()
	for i, acc := range accounts {
		status := "failed: " + fmt.Sprint(err)
		if err == nil {
			status = reportStatus(res.Providers[i])
		}
		if err := storage.SaveLastFetch(c.Context, acc, now, status); err != nil {
			a.logger.Warn("Unable to save last fetch", "account", acc.ID(), "error", err)
		}
	}
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printMeetings(c.App.Writer, res)
	return nil
}

func reportStatus(r internal.ProviderReport) string {
	if r.Healthy() {
		return fmt.Sprintf("ok: %d meetings", r.Meetings)
	}
	return "failed: " + strings.Join(r.Errors, "; ")
}

func printMeetings(w io.Writer, res *aggregator.Result) {
	if len(res.Meetings) == 0 {
		fmt.Fprintln(w, "No meetings found.")
	} else {
		rows := make([][]string, 0, len(res.Meetings))
		for _, m := range res.Meetings {
			rows = append(rows, []string{
				m.Provider.String(),
				m.StartTime,
				m.Title,
				m.Organizer,
				strings.Join(m.OthersEmails, ", "),
			})
		}
		table := newTable(w)
		table.Header("Provider", "Start", "Title", "Organizer", "Others")
		table.Bulk(rows)
		table.Render()
	}

	for _, r := range res.Providers {
		if !r.Healthy() {
			fmt.Fprintf(w, "%s: %s\n", r.Provider, reportStatus(r))
		}
	}
}
