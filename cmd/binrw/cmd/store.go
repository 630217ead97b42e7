package cmd

import (
	"fmt"
	"os"

	"github.com/rawbytedev/binrw/pkg/fileview"
	"github.com/rawbytedev/binrw/pkg/frame"
	"github.com/rawbytedev/binrw/pkg/framestore"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

var (
	dbDir      string
	storeOpts  frameOptions
	getOutFile string
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Keep frames in a local archive",
}

var storePutCmd = &cobra.Command{
	Use:   "put FILE...",
	Short: "Store the contents of each FILE as a frame",
	Long: `Store the contents of each FILE as a new frame and print its id.

Example:
  binrw store --db ./frames put --zstd capture.bin`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *framestore.Store) error {
			for _, path := range args {
				id, err := putFile(s, path, storeOpts.flags())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		})
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Write the payload of a stored frame",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid frame id %q: %w", args[0], err)
		}
		return withStore(func(s *framestore.Store) error {
			f, err := s.Get(id)
			if err != nil {
				return err
			}
			if getOutFile == "" {
				_, err = cmd.OutOrStdout().Write(f.Payload)
				return err
			}
			return os.WriteFile(getOutFile, f.Payload, 0o644)
		})
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored frames",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *framestore.Store) error {
			ids, err := s.List()
			if err != nil {
				return err
			}
			frames := make([]frame.Frame, 0, len(ids))
			for _, id := range ids {
				f, err := s.Get(id)
				if err != nil {
					return err
				}
				frames = append(frames, f)
			}
			printFrames(cmd.OutOrStdout(), frames)
			return nil
		})
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete ID...",
	Short: "Delete stored frames",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *framestore.Store) error {
			for _, arg := range args {
				id, err := ksuid.Parse(arg)
				if err != nil {
					return fmt.Errorf("invalid frame id %q: %w", arg, err)
				}
				if err := s.Delete(id); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

func withStore(fn func(*framestore.Store) error) error {
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return fmt.Errorf("failed to create store dir: %w", err)
	}
	s, err := framestore.Open(dbDir)
	if err != nil {
		return err
	}
	logf("opened store %s", dbDir)
	if err := fn(s); err != nil {
		s.Close()
		return err
	}
	return s.Close()
}

func putFile(s *framestore.Store, path string, flags []frame.Flag) (ksuid.KSUID, error) {
	v, err := fileview.Open(path)
	if err != nil {
		return ksuid.Nil, err
	}
	defer v.Close()
	id, err := s.Put(frame.New(v.Bytes(), flags...))
	if err != nil {
		return ksuid.Nil, fmt.Errorf("%s: %w", path, err)
	}
	logf("stored %s as %s", path, id)
	return id, nil
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storePutCmd, storeGetCmd, storeListCmd, storeDeleteCmd)
	storeCmd.PersistentFlags().StringVarP(&dbDir, "db", "d", "./frames", "Frame archive directory")
	storePutCmd.Flags().BoolVar(&storeOpts.zstd, "zstd", false, "Compress payloads with zstd")
	storePutCmd.Flags().BoolVar(&storeOpts.xxhash, "xxhash", false, "Use xxhash64 checksums")
	storeGetCmd.Flags().StringVarP(&getOutFile, "out", "o", "", "Output file, stdout when empty")
}
