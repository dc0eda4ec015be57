package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ehr/hvfhir/internal/config"
)

func tablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Inspect the vocabulary and unit tables",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the configured tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return checkTables(cmd, cfg)
		},
	})
	return cmd
}

func checkTables(cmd *cobra.Command, cfg *config.Config) error {
	vt, ut, err := loadTables(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "vocabulary: %d code systems under %s\n", len(vt.Systems), vt.BaseURL)
	fmt.Fprintf(out, "units: %d entries\n", len(ut.Entries))

	errs := ut.Check()
	for _, e := range errs {
		fmt.Fprintf(out, "  %v\n", e)
	}
	if len(errs) > 0 {
		return fmt.Errorf("unit table has %d problem(s): %w", len(errs), errors.Join(errs...))
	}
	fmt.Fprintln(out, "ok")
	return nil
}
