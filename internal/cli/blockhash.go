package cli

import (
	"io"
	"time"

	"github.com/spf13/cobra"
)

// BlockhashReport is the latest blockhash of a cluster.
type BlockhashReport struct {
	Cluster              string `json:"cluster"`
	Endpoint             string `json:"endpoint"`
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight uint64 `json:"last_valid_block_height"`
}

func newBlockhashCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "blockhash",
		Short: "Fetch the latest blockhash of the target cluster",
		Long: `Fetch the blockhash a legacy send would stamp on a transaction.

Example:
  solconnect blockhash --cluster mainnet-beta`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := contextWithTimeout(cmd, timeout)
			defer cancel()

			bh, err := a.dial(a.cfg).LatestBlockhash(ctx)
			if err != nil {
				return err
			}
			report := BlockhashReport{
				Cluster:              string(a.cfg.GetCluster()),
				Endpoint:             a.cfg.GetRPCURL(),
				Blockhash:            bh.Hash.String(),
				LastValidBlockHeight: bh.LastValidBlockHeight,
			}
			return a.formatter.Emit(report, func(w io.Writer) error {
				out(w, "%s (valid through block %d)\n", report.Blockhash, report.LastValidBlockHeight)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "give up after this long")
	return cmd
}
