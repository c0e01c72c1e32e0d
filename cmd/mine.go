package cmd

import (
	"context"

	"github.com/deso-protocol/ternpow/lib"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine nonces for transactions",
	Long: `Mines a nonce for each transaction given through --trytes or
--input-file and prints each mined transaction as trytes, one per line. A
transaction is exactly 2673 trytes and its last 81 trytes are overwritten
with the nonce.`,
	RunE: Mine,
}

func init() {
	mineCmd.Flags().Int("min-weight-magnitude", 14,
		"How many trailing zero trits the hash of each mined transaction must have.")
	viper.BindPFlag("min-weight-magnitude", mineCmd.Flags().Lookup("min-weight-magnitude"))
	rootCmd.AddCommand(mineCmd)
}

func Mine(cmd *cobra.Command, args []string) error {
	return runWithNode(cmd, func(ctx context.Context, node *Node) error {
		jobs, err := LoadJobs(node.Config)
		if err != nil {
			return err
		}
		for _, job := range jobs {
			if len(job.Trits) != lib.TransactionLength {
				return errors.Wrapf(lib.MinerErrorInvalidTransactionLength,
					"Mine: %s has %d trits, want %d", job.Source, len(job.Trits), lib.TransactionLength)
			}
		}

		node.EnqueueJobs(jobs)
		mined, err := node.MineAll(ctx, node.Config.MinWeightMagnitude, cmd.OutOrStdout())
		glog.Infof("Mine: Mined %d of %d transactions", mined, len(jobs))
		return err
	})
}
