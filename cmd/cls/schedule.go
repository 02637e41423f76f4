package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/church-livestream/cls/internal/domain"
)

func newScheduleCmd(api *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Export or import the weekly and one-time windows",
	}
	cmd.AddCommand(newScheduleExportCmd(api), newScheduleImportCmd(api))
	return cmd
}

func newScheduleExportCmd(api *apiClient) *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the schedule as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatFromPath(output)
			}
			if format != "json" && format != "yaml" {
				return fmt.Errorf("invalid format %q: must be json or yaml", format)
			}

			body, err := api.get(cmd.Context(), "/api/v1/schedule")
			if err != nil {
				return err
			}
			var export domain.ScheduleExport
			if err := json.Unmarshal(body, &export); err != nil {
				return fmt.Errorf("decode schedule: %w", err)
			}

			out, err := encodeSchedule(export, format)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := renameio.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rules and %d events to %s\n", len(export.Schedule), len(export.OneTimeEvents), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Fichier de sortie (stdout par défaut)")
	cmd.Flags().StringVar(&format, "format", "", "json ou yaml (déduit de l'extension, json par défaut)")
	return cmd
}

func newScheduleImportCmd(api *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the schedule from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			payload, err := scheduleJSON(raw, formatFromPath(args[0]))
			if err != nil {
				return err
			}
			body, err := api.put(cmd.Context(), "/api/v1/schedule", payload)
			if err != nil {
				return err
			}
			var imported domain.ScheduleExport
			if err := json.Unmarshal(body, &imported); err != nil {
				return fmt.Errorf("decode schedule: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rules and %d events\n", len(imported.Schedule), len(imported.OneTimeEvents))
			return nil
		},
	}
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func encodeSchedule(export domain.ScheduleExport, format string) ([]byte, error) {
	if export.Schedule == nil {
		export.Schedule = []domain.ScheduleRule{}
	}
	if export.OneTimeEvents == nil {
		export.OneTimeEvents = []domain.OneTimeEvent{}
	}
	if format == "yaml" {
		return yaml.Marshal(export)
	}
	b, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// scheduleJSON convertit un fichier YAML en JSON; le serveur accepte un objet
// {schedule, one_time_events} ou un tableau de règles.
func scheduleJSON(raw []byte, format string) ([]byte, error) {
	if format != "yaml" {
		return raw, nil
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert yaml: %w", err)
	}
	return b, nil
}
