package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/provide-io/labelsdb/internal/config"
	"github.com/provide-io/labelsdb/pkg/imaging"
	"github.com/provide-io/labelsdb/pkg/labelsdb"
	"github.com/provide-io/labelsdb/pkg/labelsdb/dbfile"
	"github.com/spf13/cobra"
)

func (a *app) newNewCmd() *cobra.Command {
	var headerPath string
	var force bool
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.database()
			if err != nil {
				return err
			}
			if headerPath == "" {
				headerPath = a.cfg.Header
			}
			header, err := readHeader(headerPath)
			if err != nil {
				return err
			}
			c, err := labelsdb.NewContainer(header)
			if err != nil {
				return err
			}

			lock, err := dbfile.Acquire(path, a.logger)
			if err != nil {
				return err
			}
			defer lock.Release()

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := dbfile.Save(path, c, a.logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&headerPath, "header", "", "256-byte header file, or a database to copy the header from")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing database")
	return cmd
}

// readHeader loads a header template. A file longer than a header is read
// as a database and its header reused.
func readHeader(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	path, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(data) > labelsdb.HeaderSize {
		if c, err := labelsdb.Decode(data); err == nil {
			return c.Header[:], nil
		}
	}
	return data, nil
}

func (a *app) newAddCmd() *cobra.Command {
	var skipExisting bool
	cmd := &cobra.Command{
		Use:   "add <signature> <image>",
		Short: "Add or replace the thumbnail for a signature",
		Long: `Add or replace the thumbnail for a signature. PNG, JPEG, GIF, BMP and
WebP images are accepted; anything not 74x86 is resampled.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := labelsdb.ParseSignature(args[0])
			if err != nil {
				return err
			}
			res, err := a.getResampler()
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			pixels, err := imaging.ReadPixelBlock(f, res)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}

			out := cmd.OutOrStdout()
			return a.edit(func(repo *labelsdb.Repository) (bool, error) {
				if _, ok := repo.Lookup(sig); ok && skipExisting {
					fmt.Fprintf(out, "skipped %s (already present)\n", sig)
					return false, nil
				}
				result, err := repo.Upsert(sig, pixels)
				if err != nil {
					return false, err
				}
				a.logger.Info("🏷️ Stored thumbnail", "signature", sig.String(), "result", result.String(), "resampler", res.Name())
				fmt.Fprintf(out, "%s %s\n", result, sig)
				return true, nil
			})
		},
	}
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Leave signatures that are already present untouched")
	return cmd
}

func (a *app) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <signature>...",
		Short: "Remove thumbnails",
		Long:  "Remove thumbnails. If any signature is absent nothing is removed.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sigs, err := parseSignatures(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return a.edit(func(repo *labelsdb.Repository) (bool, error) {
				for _, sig := range sigs {
					if err := repo.Remove(sig); err != nil {
						return false, err
					}
				}
				for _, sig := range sigs {
					fmt.Fprintf(out, "removed %s\n", sig)
				}
				return true, nil
			})
		},
	}
}

func parseSignatures(args []string) ([]labelsdb.Signature, error) {
	sigs := make([]labelsdb.Signature, 0, len(args))
	for _, arg := range args {
		sig, err := labelsdb.ParseSignature(arg)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

func (a *app) newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <signature> <output.png>",
		Short: "Write one thumbnail as a PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := labelsdb.ParseSignature(args[0])
			if err != nil {
				return err
			}
			repo, err := a.open()
			if err != nil {
				return err
			}
			pixels, ok := repo.Lookup(sig)
			if !ok {
				return &labelsdb.ValidationError{Kind: labelsdb.NotFound, Signature: sig}
			}

			var buf bytes.Buffer
			if err := imaging.WritePNG(&buf, pixels); err != nil {
				return err
			}
			if err := dbfile.WriteAtomic(args[1], buf.Bytes(), a.logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
			return nil
		},
	}
}
