// cmd/cli/main.go
package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"server-warden/internal/responses"
	"server-warden/internal/storage"
	v "server-warden/internal/version"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:    "warden-cli",
		Usage:   "inspect and edit the warden's data file",
		Version: v.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Usage:   "path to the datastore JSON file",
				Value:   "data/datastore.json",
				EnvVars: []string{"DATA_PATH"},
			},
		},
	}
	guildFlag := &cli.StringFlag{Name: "guild", Usage: "guild ID", Required: true}

	app.Commands = []*cli.Command{
		{
			Name:  "warnings",
			Usage: "list or clear warnings",
			Subcommands: []*cli.Command{
				{
					Name:   "list",
					Usage:  "list warnings per user",
					Flags:  []cli.Flag{guildFlag},
					Action: runWarningsList,
				},
				{
					Name:      "clear",
					Usage:     "clear a user's warnings",
					ArgsUsage: "<user-id>",
					Flags:     []cli.Flag{guildFlag},
					Action:    runWarningsClear,
				},
			},
		},
		{
			Name:  "bans",
			Usage: "ban records",
			Subcommands: []*cli.Command{
				{
					Name:   "list",
					Usage:  "list recorded bans",
					Flags:  []cli.Flag{guildFlag},
					Action: runBansList,
				},
			},
		},
		{
			Name:   "history",
			Usage:  "show the recent command history of a guild",
			Flags:  []cli.Flag{guildFlag},
			Action: runHistory,
		},
		{
			Name:  "guilds",
			Usage: "list guilds with stored data",
			Action: func(cctx *cli.Context) error {
				return withStorage(cctx, func(s *storage.Storage) error {
					for _, g := range s.Guilds() {
						fmt.Println(g)
					}
					return nil
				})
			},
		},
		{
			Name:  "quotes",
			Usage: "list the quotes in a responses file",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "responses", Value: "responses.json", EnvVars: []string{"RESPONSES_PATH"}},
				&cli.StringFlag{Name: "custom", EnvVars: []string{"DATA_CUSTOM_RESPONSES"}},
			},
			Action: runQuotes,
		},
	}
	app.RunAndExitOnError()
}

func withStorage(cctx *cli.Context, fn func(*storage.Storage) error) error {
	s, err := storage.New(cctx.String("data"))
	if err != nil {
		return fmt.Errorf("open %s: %w", cctx.String("data"), err)
	}
	defer s.Close()
	return fn(s)
}

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func runWarningsList(cctx *cli.Context) error {
	return withStorage(cctx, func(s *storage.Storage) error {
		all, err := s.AllWarnings(cctx.String("guild"))
		if err != nil {
			return err
		}
		users := make([]string, 0, len(all))
		for u := range all {
			users = append(users, u)
		}
		sort.Strings(users)

		w := table()
		fmt.Fprintln(w, "USER\tNAME\tCOUNT\tLAST")
		for _, u := range users {
			list := all[u]
			if len(list) == 0 {
				continue
			}
			last := list[len(list)-1]
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", u, last.Username, len(list), last.Date.Format(time.DateTime))
		}
		return w.Flush()
	})
}

func runWarningsClear(cctx *cli.Context) error {
	userID := cctx.Args().First()
	if userID == "" {
		return cli.Exit("need to provide a user ID as an argument", 1)
	}
	return withStorage(cctx, func(s *storage.Storage) error {
		n, err := s.ClearWarnings(cctx.String("guild"), userID)
		if err != nil {
			return err
		}
		fmt.Printf("cleared %d warning(s) for %s\n", n, userID)
		return nil
	})
}

func runBansList(cctx *cli.Context) error {
	return withStorage(cctx, func(s *storage.Storage) error {
		bans, err := s.Bans(cctx.String("guild"))
		if err != nil {
			return err
		}
		w := table()
		fmt.Fprintln(w, "DATE\tUSER\tNAME\tBY\tWARNINGS\tREASON")
		for _, b := range bans {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", b.Date.Format(time.DateTime), b.UserID, b.Username, b.BannedBy, b.WarningCount, b.Reason)
		}
		return w.Flush()
	})
}

func runHistory(cctx *cli.Context) error {
	return withStorage(cctx, func(s *storage.Storage) error {
		records, err := s.CommandHistory(cctx.String("guild"))
		if err != nil {
			return err
		}
		w := table()
		fmt.Fprintln(w, "DATE\tCHANNEL\tUSER\tCOMMAND\tCONTENT")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Datetime.Format(time.DateTime), r.ChannelID, r.Username, r.Command, r.Content)
		}
		return w.Flush()
	})
}

func runQuotes(cctx *cli.Context) error {
	resp, err := responses.Load(cctx.String("responses"), cctx.String("custom"))
	if err != nil {
		return err
	}
	for _, name := range resp.Names() {
		q, _ := resp.Quote(name)
		fmt.Printf("%s\t%s\n", name, q.Reply)
	}
	return nil
}
