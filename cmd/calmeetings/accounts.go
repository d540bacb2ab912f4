package main

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/guilherme-santos/calmeetings/internal"
)

func accountsCommand() *cli.Command {
	return &cli.Command{
		Name:  "accounts",
		Usage: "Manage the accounts whose tokens are used to read meetings.",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Save an access token under a name.",
				ArgsUsage: "<google|outlook> <name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "token", Usage: "access token", Required: true, EnvVars: []string{"CALMEETINGS_TOKEN"}},
				},
				Action: addAccount,
			},
			{
				Name:   "list",
				Usage:  "List the saved accounts.",
				Action: listAccounts,
			},
			{
				Name:      "remove",
				Usage:     "Forget an account.",
				ArgsUsage: "<provider/name>",
				Action:    removeAccount,
			},
		},
	}
}

func addAccount(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: accounts add <google|outlook> <name> --token TOKEN", 2)
	}
	platform := internal.ProviderKey(c.Args().Get(0))
	if platform != internal.Google && platform != internal.Outlook {
		return &internal.UnsupportedProviderError{Provider: platform}
	}

	a, err := newApp(c)
	if err != nil {
		return err
	}
	storage, err := a.openStorage()
	if err != nil {
		return err
	}
	defer storage.Close()

	auth, err := internal.NewAuth(c.String("token"))
	if err != nil {
		return err
	}
	acc := &internal.Account{
		Platform: platform,
		Name:     c.Args().Get(1),
		Auth:     auth,
	}
	fmt.Fprintf(c.App.Writer, "Saving account %q for %q provider...\n", acc.Name, acc.Platform)
	if err := storage.AddAccount(c.Context, acc); err != nil {
		return fmt.Errorf("saving account: %w", err)
	}
	return nil
}

func listAccounts(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	storage, err := a.openStorage()
	if err != nil {
		return err
	}
	defer storage.Close()

	accs, err := storage.Accounts(c.Context)
	if err != nil {
		return err
	}
	printAccounts(c.App.Writer, accs)
	return nil
}

func printAccounts(w io.Writer, accs []*internal.Account) {
	if len(accs) == 0 {
		fmt.Fprintln(w, "No accounts saved.")
		return
	}
	rows := make([][]string, 0, len(accs))
	for _, acc := range accs {
		lastFetch := "never"
		if !acc.LastFetch.IsZero() {
			lastFetch = acc.LastFetch.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{acc.ID(), lastFetch, acc.LastStatus})
	}
	table := newTable(w)
	table.Header("Account", "Last fetch", "Status")
	table.Bulk(rows)
	table.Render()
}

func removeAccount(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: accounts remove <provider/name>", 2)
	}

	a, err := newApp(c)
	if err != nil {
		return err
	}
	storage, err := a.openStorage()
	if err != nil {
		return err
	}
	defer storage.Close()

	return storage.DeleteAccount(c.Context, c.Args().First())
}
