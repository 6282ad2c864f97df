package cmd

import (
	"fmt"

	"github.com/ardanlabs/jackcoin/app/services/node/handlers/v1/public"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine pending transactions with the reward going to this wallet",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {
	key, err := loadKey()
	if err != nil {
		return err
	}

	var blk struct {
		Number uint64 `json:"number"`
		Hash   string `json:"hash"`
		Nonce  uint64 `json:"nonce"`
		Trans  []any  `json:"trans"`
	}
	req := public.MineRequest{Beneficiary: key.PublicID()}
	if err := post(fmt.Sprintf("%s/v1/mine", url), req, &blk); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "block[%d]: hash[%s]: nonce[%d]: trans[%d]\n", blk.Number, blk.Hash, blk.Nonce, len(blk.Trans))
	return nil
}
