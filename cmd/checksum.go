package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/deso-protocol/ternpow/encoding"
	"github.com/deso-protocol/ternpow/lib"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var checksumCmd = &cobra.Command{
	Use:   "checksum",
	Short: "Find a balanced checksum for a message",
	Long: `Finds checksum trits that, hashed after the message given through
--trytes, make the first --sum-length trits of the hash sum to zero, and
prints them as trytes. The checksum may come out longer than
--checksum-length when no shorter one is found quickly.`,
	RunE: Checksum,
}

func init() {
	checksumCmd.Flags().Int("checksum-length", 27,
		"The length in trits to start searching at. Must be a multiple of 3.")
	checksumCmd.Flags().Int("sum-length", lib.HashLength,
		"How many leading hash trits must balance.")
	viper.BindPFlag("checksum-length", checksumCmd.Flags().Lookup("checksum-length"))
	viper.BindPFlag("sum-length", checksumCmd.Flags().Lookup("sum-length"))
	rootCmd.AddCommand(checksumCmd)
}

func Checksum(cmd *cobra.Command, args []string) error {
	return runWithNode(cmd, func(ctx context.Context, node *Node) error {
		if node.Config.Trytes == "" {
			return fmt.Errorf("Checksum: Nothing to do, set --trytes")
		}
		message, err := encoding.TrytesToTrits(strings.TrimSpace(node.Config.Trytes))
		if err != nil {
			return errors.Wrapf(err, "Checksum: Problem parsing --trytes")
		}

		checksum, err := node.FindChecksum(ctx, message, node.Config.ChecksumLength, node.Config.SumLength)
		if err != nil {
			return err
		}
		if checksum != "" {
			fmt.Fprintln(cmd.OutOrStdout(), checksum)
		}
		return nil
	})
}
