package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rawbytedev/binrw/pkg/fileview"
	"github.com/rawbytedev/binrw/pkg/frame"
	"github.com/spf13/cobra"
)

type frameOptions struct {
	zstd   bool
	xxhash bool
}

var frameOpts frameOptions

func (o frameOptions) flags() []frame.Flag {
	var flags []frame.Flag
	if o.zstd {
		flags = append(flags, frame.FlagZstd)
	}
	if o.xxhash {
		flags = append(flags, frame.FlagXXHash)
	}
	return flags
}

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Wrap payloads in checksummed frames",
}

var wrapCmd = &cobra.Command{
	Use:   "wrap IN OUT",
	Short: "Wrap the contents of IN in a frame",
	Long: `Wrap the contents of IN in a single frame written to OUT.

Example:
  binrw frame wrap --zstd --xxhash payload.bin payload.frame`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := wrapFile(args[0], frameOpts.flags())
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", args[1], err)
		}
		logf("wrote %d byte frame to %s", len(data), args[1])
		return nil
	},
}

var unwrapCmd = &cobra.Command{
	Use:   "unwrap IN [OUT]",
	Short: "List the frames in IN and optionally extract their payloads",
	Long: `Verify and list every frame in IN. When OUT is given the payloads
are written to it back to back.

Example:
  binrw frame unwrap payload.frame payload.bin`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		frames, err := unwrapFile(args[0])
		if err != nil {
			return err
		}
		printFrames(cmd.OutOrStdout(), frames)
		if len(args) < 2 {
			return nil
		}
		out, err := os.Create(args[1])
		if err != nil {
			return err
		}
		for _, f := range frames {
			if _, err := out.Write(f.Payload); err != nil {
				out.Close()
				return err
			}
		}
		return out.Close()
	},
}

func wrapFile(path string, flags []frame.Flag) ([]byte, error) {
	v, err := fileview.Open(path)
	if err != nil {
		return nil, err
	}
	defer v.Close()

	codec, err := frame.NewCodec()
	if err != nil {
		return nil, err
	}
	defer codec.Close()
	return codec.Encode(frame.New(v.Bytes(), flags...))
}

// unwrapFile returns the frames in path. Payloads are copied out of the
// mapping before it is released.
func unwrapFile(path string) ([]frame.Frame, error) {
	v, err := fileview.Open(path)
	if err != nil {
		return nil, err
	}
	defer v.Close()

	codec, err := frame.NewCodec()
	if err != nil {
		return nil, err
	}
	defer codec.Close()
	frames, err := codec.DecodeAll(v.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range frames {
		if !frames[i].Flags.Test(frame.FlagZstd) {
			frames[i].Payload = append([]byte(nil), frames[i].Payload...)
		}
	}
	return frames, nil
}

func flagNames(f frame.Frame) string {
	s := "crc32"
	if f.Flags.Test(frame.FlagXXHash) {
		s = "xxhash"
	}
	if f.Flags.Test(frame.FlagZstd) {
		s += ",zstd"
	}
	return s
}

func printFrames(w io.Writer, frames []frame.Frame) {
	for _, f := range frames {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", f.ID, f.ID.Time().UTC().Format("2006-01-02T15:04:05Z"), flagNames(f), len(f.Payload))
	}
}

func init() {
	rootCmd.AddCommand(frameCmd)
	frameCmd.AddCommand(wrapCmd, unwrapCmd)
	wrapCmd.Flags().BoolVar(&frameOpts.zstd, "zstd", false, "Compress the payload with zstd")
	wrapCmd.Flags().BoolVar(&frameOpts.xxhash, "xxhash", false, "Use an xxhash64 trailer instead of CRC32")
}
