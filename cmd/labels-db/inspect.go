package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/provide-io/labelsdb/internal/config"
	"github.com/provide-io/labelsdb/pkg/labelsdb"
	"github.com/provide-io/labelsdb/pkg/romnames"
	"github.com/spf13/cobra"
)

func (a *app) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show a summary of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.database()
			if err != nil {
				return err
			}
			stat, err := os.Stat(path)
			if err != nil {
				return err
			}
			repo, err := a.open()
			if err != nil {
				return err
			}

			header := repo.Header()
			count := repo.Count()
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Append([]string{"Path", path})
			table.Append([]string{"Size", strconv.FormatInt(stat.Size(), 10)})
			table.Append([]string{"Encoded Size", strconv.Itoa(labelsdb.EncodedSize(count))})
			table.Append([]string{"Entries", fmt.Sprintf("%d / %d", count, labelsdb.IndexCapacity)})
			table.Append([]string{"Header", hex.EncodeToString(header[:16]) + "..."})
			if sigs := sortedSignatures(repo); len(sigs) > 0 {
				table.Append([]string{"Lowest", sigs[0].String()})
				table.Append([]string{"Highest", sigs[len(sigs)-1].String()})
			}
			table.Render()
			return nil
		},
	}
}

func sortedSignatures(repo *labelsdb.Repository) []labelsdb.Signature {
	entries := repo.Container().SortedEntries()
	sigs := make([]labelsdb.Signature, len(entries))
	for i, e := range entries {
		sigs[i] = e.Signature
	}
	return sigs
}

func (a *app) newListCmd() *cobra.Command {
	var sorted bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the signatures stored in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.open()
			if err != nil {
				return err
			}
			names, err := a.names()
			if err != nil {
				return err
			}

			sigs := repo.Signatures()
			if sorted {
				sigs = sortedSignatures(repo)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"#", "Signature", "Title", "Region"})
			for i, sig := range sigs {
				title, region := "-", "-"
				if e, ok := names.Lookup(sig); ok {
					title, region = e.Title, e.Region
				}
				table.Append([]string{strconv.Itoa(i), sig.String(), title, region})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&sorted, "sorted", false, "List in on-disk order (ascending signature) instead of storage order")
	return cmd
}

func (a *app) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <terms>",
		Short: "Search the name table by title or signature",
		Long: `Search the name table. Terms are comma separated; an entry matches
when any term does. Terms made only of hex digits match signatures only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.names()
			if err != nil {
				return err
			}
			if names == nil {
				return fmt.Errorf("no name table configured (use --names or %s)", config.EnvNames)
			}

			var repo *labelsdb.Repository
			if a.dbPath != "" {
				if repo, err = a.open(); err != nil {
					return err
				}
			}

			terms := romnames.ParseTerms(args[0])
			matches := romnames.Filter(names.Entries(), terms)
			a.logger.Debug("🔍 Search finished", "terms", len(terms), "matches", len(matches))

			out := cmd.OutOrStdout()
			mark := highlighter(out)
			table := tablewriter.NewWriter(out)
			header := []string{"Signature", "Title", "Region"}
			if repo != nil {
				header = append(header, "In DB")
			}
			table.SetHeader(header)
			for _, e := range matches {
				row := []string{
					romnames.Highlight(e.ID(), terms, mark),
					romnames.Highlight(e.Title, terms, mark),
					e.Region,
				}
				if repo != nil {
					_, ok := repo.Lookup(e.Signature)
					row = append(row, yesNo(ok))
				}
				table.Append(row)
			}
			table.Render()
			fmt.Fprintf(out, "%d match(es)\n", len(matches))
			return nil
		},
	}
}

// highlighter returns a colouring function when out is a terminal
func highlighter(out io.Writer) func(string) string {
	f, ok := out.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return nil
	}
	c := color.New(color.FgYellow, color.Bold)
	c.EnableColor()
	return func(s string) string { return c.Sprint(s) }
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
