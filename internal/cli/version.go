package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/rocketshoes-labs/cartctl/internal/branding"
)

var (
	versionShort bool
	versionJSON  bool
	versionYAML  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	versionCmd.Flags().BoolVar(&versionYAML, "yaml", false, "Print version info as YAML")
	rootCmd.AddCommand(versionCmd)
}

// buildInfo is the --json and --yaml shape of the version command.
type buildInfo struct {
	Name       string `json:"name" yaml:"name"`
	Version    string `json:"version" yaml:"version"`
	Commit     string `json:"commit" yaml:"commit"`
	Date       string `json:"date" yaml:"date"`
	StorageKey string `json:"storage_key" yaml:"storage_key"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Name:       branding.CLIName(),
		Version:    buildVersion,
		Commit:     buildCommit,
		Date:       buildDate,
		StorageKey: branding.StorageKey(),
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		info := currentBuild()

		switch {
		case versionShort:
			fmt.Fprintln(out, info.Version)
			return nil
		case versionJSON:
			return printVersionJSON(out, info)
		case versionYAML:
			return printVersionYAML(out, info)
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", info.Name, info.Version, info.Commit, info.Date)
		return nil
	},
}

func printVersionJSON(w io.Writer, info buildInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling version info: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printVersionYAML(w io.Writer, info buildInfo) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(info); err != nil {
		return fmt.Errorf("marshaling version info: %w", err)
	}
	return enc.Close()
}
