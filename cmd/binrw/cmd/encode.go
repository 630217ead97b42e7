package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rawbytedev/binrw/pkg/layout"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type encodeOptions struct {
	layout string
	in     string
	out    string
}

var encodeOpts encodeOptions

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a YAML value file with a layout",
	Long: `Encode the field values in a YAML mapping into one binary record.
Byte fields take hex strings and enums take names or ordinals.

Example:
  binrw encode --layout header.yaml --in values.yaml --out header.bin`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(encodeOpts.layout)
		if err != nil {
			return err
		}
		data, err := encodeValues(plan, encodeOpts.in)
		if err != nil {
			return err
		}
		if encodeOpts.out == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(encodeOpts.out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", encodeOpts.out, err)
		}
		logf("wrote %d bytes to %s", len(data), encodeOpts.out)
		return nil
	},
}

// encodeValues reads a YAML mapping from path ("-" for stdin) and encodes
// it with plan.
func encodeValues(plan *layout.Plan, path string) ([]byte, error) {
	var (
		src []byte
		err error
	)
	if path == "-" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}
	var vals map[string]any
	if err := yaml.Unmarshal(src, &vals); err != nil {
		return nil, fmt.Errorf("failed to parse values: %w", err)
	}
	return plan.Marshal(vals)
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringVarP(&encodeOpts.layout, "layout", "l", "", "YAML record layout")
	encodeCmd.Flags().StringVarP(&encodeOpts.in, "in", "i", "-", "YAML value file, - for stdin")
	encodeCmd.Flags().StringVarP(&encodeOpts.out, "out", "o", "", "Output file, stdout when empty")
}
