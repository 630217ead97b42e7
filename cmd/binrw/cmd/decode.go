package cmd

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/goccy/go-json"
	"github.com/rawbytedev/binrw/pkg/fileview"
	"github.com/rawbytedev/binrw/pkg/layout"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

type decodeOptions struct {
	layout string
	format string
	all    bool
}

var decodeOpts decodeOptions

var decodeCmd = &cobra.Command{
	Use:   "decode FILE...",
	Short: "Decode binary files with a layout",
	Long: `Decode each FILE with the record layout and print the fields in
declared order. Files are decoded concurrently.

Example:
  binrw decode --layout header.yaml --format json a.bin b.bin`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(decodeOpts.format); err != nil {
			return err
		}
		plan, err := loadPlan(decodeOpts.layout)
		if err != nil {
			return err
		}
		results, err := decodeFiles(cmd.Context(), plan, args, decodeOpts.all)
		if err != nil {
			return err
		}
		return writeResults(cmd.OutOrStdout(), decodeOpts.format, results)
	},
}

// fileResult is the printed form of one decoded file.
type fileResult struct {
	File    string          `json:"file" yaml:"file"`
	Records []layout.Record `json:"records" yaml:"records"`
}

func checkFormat(format string) error {
	switch format {
	case "json", "yaml":
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}

func loadPlan(path string) (*layout.Plan, error) {
	if path == "" {
		return nil, fmt.Errorf("--layout is required")
	}
	l, err := layout.Load(path)
	if err != nil {
		return nil, err
	}
	plan, err := layout.Compile(l)
	if err != nil {
		return nil, fmt.Errorf("failed to compile layout %s: %w", path, err)
	}
	return plan, nil
}

// decodeFiles decodes every path with its own reader. Results keep the order
// of paths.
func decodeFiles(ctx context.Context, plan *layout.Plan, paths []string, all bool) ([]fileResult, error) {
	results := make([]fileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := decodeFile(plan, path, all)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = fileResult{File: path, Records: recs}
			logf("%s: %d record(s)", path, len(recs))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func decodeFile(plan *layout.Plan, path string, all bool) ([]layout.Record, error) {
	v, err := fileview.Open(path)
	if err != nil {
		return nil, err
	}
	defer v.Close()

	r := plan.NewReader(v.Bytes())
	var recs []layout.Record
	for {
		rec, err := plan.DecodeFrom(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(recs), err)
		}
		recs = append(recs, rec)
		if !all || r.Empty() {
			break
		}
		if r.Pos() == 0 {
			return nil, fmt.Errorf("layout consumes no bytes")
		}
	}
	if !r.Empty() {
		logf("%s: %d trailing byte(s)", path, r.Left())
	}
	return recs, nil
}

func writeResults(out io.Writer, format string, results []fileResult) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		for _, res := range results {
			if err := enc.Encode(res); err != nil {
				return err
			}
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	for _, res := range results {
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringVarP(&decodeOpts.layout, "layout", "l", "", "YAML record layout")
	decodeCmd.Flags().StringVarP(&decodeOpts.format, "format", "f", "json", "Output format: json or yaml")
	decodeCmd.Flags().BoolVar(&decodeOpts.all, "all", false, "Decode back-to-back records until the file ends")
}
