package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"restaurantcore/internal/archive"
	"restaurantcore/internal/blob"
	"restaurantcore/internal/fixtures"
)

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create records from a YAML fixture file",
		Long: `Create records from a YAML fixture file. Collections are keyed by their API
name (dishes, menu-items, ...) and applied in dependency order, each record
through the same checks as an API write.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := fixtures.LoadFile(file)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			report, err := fixtures.Apply(cmd.Context(), a.svc, f)
			names := make([]string, 0, len(report))
			for name := range report {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", name, report[name])
			}
			if err != nil {
				return fmt.Errorf("seed stopped: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records\n", report.Total())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "fixtures.yaml", "Fixture file")
	return cmd
}

func newExportCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Archive the current state to blob storage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			store, err := blob.Open(cmd.Context(), a.cfg.BlobStore())
			if err != nil {
				return err
			}
			info, err := archive.Export(cmd.Context(), a.svc, store, key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s records to %s\n", info.Metadata[archive.MetaRecords], info.Key)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "Archive key (default snapshots/<timestamp>.json)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the current state with an archive",
		Long: `Replace the current state with an archive from blob storage. The archive is
checked against every integrity rule first; a failing archive leaves the
current state untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			store, err := blob.Open(cmd.Context(), a.cfg.BlobStore())
			if err != nil {
				return err
			}
			if key == "" {
				if key, err = archive.Latest(cmd.Context(), store); err != nil {
					return err
				}
			}
			n, err := archive.Import(cmd.Context(), a.svc, store, key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d records from %s\n", n, key)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "Archive key (default newest under snapshots/)")
	return cmd
}
