package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	format    string
	direction string
	outPath   string
)

var rootCmd = &cobra.Command{
	Use:   "schemagen",
	Short: "Print the chat wire protocol message shapes",
	Long: `schemagen renders every client and server message shape (fields, types,
formats, enums, nullability, defaults) as JSON or YAML for interface documents.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := Render(format, direction)
		if err != nil {
			return err
		}
		if outPath == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "schema written to %s\n", outPath)
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = true

	rootCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: json or yaml")
	rootCmd.Flags().StringVarP(&direction, "direction", "d", "all", "which shapes to render: client, server or all")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "write to this file instead of stdout")
}
