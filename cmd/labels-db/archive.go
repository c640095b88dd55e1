package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/provide-io/labelsdb/pkg/labelsdb"
	"github.com/provide-io/labelsdb/pkg/labelsdb/dbfile"
	"github.com/provide-io/labelsdb/pkg/operations"
	"github.com/provide-io/labelsdb/pkg/operations/bundle"
	"github.com/spf13/cobra"
)

// archiveChain picks the chain from --format, then the file name, then the
// configured default. The default only applies to names without an
// extension; an unrecognised extension is an error.
func (a *app) archiveChain(format, filename string) (operations.Chain, error) {
	if format != "" {
		return operations.ParseChain(format)
	}
	chain, err := operations.DetectChain(filename)
	if err == nil {
		return chain, nil
	}
	if filepath.Ext(filename) != "" {
		return nil, fmt.Errorf("%w (use --format)", err)
	}
	return operations.ParseChain(a.cfg.ArchiveFormat)
}

func (a *app) newExportCmd() *cobra.Command {
	var format string
	var stamp bool
	cmd := &cobra.Command{
		Use:   "export <archive>",
		Short: "Export every thumbnail as PNG into an archive",
		Long: `Export every thumbnail as <SIGNATURE>.png into a zip archive
or a tar archive, optionally compressed (tar, tar.gz, tar.bz2).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := a.archiveChain(format, args[0])
			if err != nil {
				return err
			}
			repo, err := a.open()
			if err != nil {
				return err
			}

			exporter := &bundle.Exporter{Chain: chain, Logger: a.logger}
			if stamp {
				exporter.ModTime = time.Now()
			}
			var buf bytes.Buffer
			n, err := exporter.Export(&buf, repo.Container())
			if err != nil {
				return err
			}
			if err := dbfile.WriteAtomic(args[0], buf.Bytes(), a.logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d image(s) to %s (%s)\n", n, args[0], chain)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Archive format (zip, tar, tar.gz, tar.bz2 or a chain like tar|bzip2)")
	cmd.Flags().BoolVar(&stamp, "timestamp", false, "Stamp archive members with the current time instead of the epoch")
	return cmd
}

func (a *app) newImportCmd() *cobra.Command {
	var format string
	var skipExisting bool
	cmd := &cobra.Command{
		Use:   "import <archive>",
		Short: "Import <SIGNATURE>.png thumbnails from an archive",
		Long: `Import <SIGNATURE>.png thumbnails from an archive. Other members are
skipped. If any image fails to decode nothing is imported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := a.archiveChain(format, args[0])
			if err != nil {
				return err
			}
			res, err := a.getResampler()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			importer := &bundle.Importer{Chain: chain, Resampler: res, Logger: a.logger}
			items, skipped, err := importer.Import(f)
			f.Close()
			if err != nil {
				return err
			}
			for _, name := range skipped {
				a.logger.Warn("Skipped archive member", "name", name)
			}

			var inserted, updated, kept int
			err = a.edit(func(repo *labelsdb.Repository) (bool, error) {
				for _, item := range items {
					if _, ok := repo.Lookup(item.Signature); ok && skipExisting {
						kept++
						continue
					}
					result, err := repo.Upsert(item.Signature, item.Pixels)
					if err != nil {
						return false, fmt.Errorf("%s: %w", item.Source, err)
					}
					if result == labelsdb.Updated {
						updated++
					} else {
						inserted++
					}
				}
				return inserted+updated > 0, nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d image(s): %d inserted, %d updated, %d kept, %d skipped\n",
				inserted+updated, inserted, updated, kept, len(skipped))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Archive format (default: from file name, then config)")
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Leave signatures that are already present untouched")
	return cmd
}
