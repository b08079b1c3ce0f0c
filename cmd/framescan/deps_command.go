package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"framescan/internal/deps"
)

type depJSON struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Path      string `json:"path,omitempty"`
	Required  bool   `json:"required"`
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
}

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external binaries used by the configured backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))

			if jsonOut {
				out := make([]depJSON, 0, len(statuses))
				for _, s := range statuses {
					out = append(out, depJSON{
						Name:      s.Name,
						Command:   s.Command,
						Path:      s.Path,
						Required:  !s.Optional,
						Available: s.Available,
						Detail:    s.Detail,
					})
				}
				if err := writeJSON(cmd, out); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(statuses))
				for _, s := range statuses {
					state := "available"
					if !s.Available {
						state = "missing"
					}
					detail := s.Path
					if detail == "" {
						detail = s.Detail
					}
					rows = append(rows, []string{s.Name, s.Command, yesNo(!s.Optional), state, detail})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Dependency", "Command", "Required", "Status", "Detail"}, rows, nil))
				fmt.Fprintf(cmd.OutOrStdout(), "Frame source: %s, OCR: %s\n", cfg.Source.Backend, cfg.OCR.Backend)
			}

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required dependencies: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
