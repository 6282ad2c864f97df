package cmd

import (
	"fmt"

	"github.com/ardanlabs/jackcoin/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	to    string
	value uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and send a transaction",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account to send value to.")
	sendCmd.Flags().Uint64VarP(&value, "value", "v", 0, "Value to send.")
	sendCmd.MarkFlagRequired("to")
}

func sendRun(cmd *cobra.Command, args []string) error {
	key, err := loadKey()
	if err != nil {
		return err
	}

	toID, err := database.ToAccountID(to)
	if err != nil {
		return err
	}

	tx := database.NewTx(database.AccountID(key.PublicID()), toID, value)
	if err := tx.Sign(key); err != nil {
		return err
	}

	submitTx := public.SubmitTx{
		From:  string(tx.From.AccountID()),
		To:    string(tx.To),
		Value: tx.Value,
		Sig:   tx.SignatureString(),
	}

	var resp struct {
		Status string `json:"status"`
		Hash   string `json:"hash"`
	}
	if err := post(fmt.Sprintf("%s/v1/tx/submit", url), submitTx, &resp); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", resp.Status, resp.Hash)
	return nil
}
