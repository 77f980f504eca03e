package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var envFiles []string
	root := &cobra.Command{
		Use:   "restaurantcore",
		Short: "Restaurant chain data service",
		Long: `restaurantcore keeps the dishes, menus, locations, staff and suppliers of a
restaurant chain behind a validated CRUD API.

Configuration is read from RESTAURANTCORE_* environment variables, after
overlaying any .env files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvFiles(stderr, envFiles)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "Environment files to overlay before reading configuration")

	root.AddCommand(newServeCmd(), newSeedCmd(), newExportCmd(), newImportCmd())
	return root
}

// loadEnvFiles overlays each file onto the environment. Missing files are skipped.
func loadEnvFiles(stderr io.Writer, files []string) error {
	for _, file := range files {
		if err := godotenv.Overload(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			fmt.Fprintf(stderr, "env file %s: %v\n", file, err)
			return err
		}
	}
	return nil
}
