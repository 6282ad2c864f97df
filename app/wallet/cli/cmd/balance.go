package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type account struct {
	Account string `json:"account"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

type accounts struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Accounts    []account `json:"accounts"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	key, err := loadKey()
	if err != nil {
		return err
	}

	accountID := key.PublicID()
	fmt.Fprintln(cmd.OutOrStdout(), "For Account:", accountID)

	var acts accounts
	if err := get(fmt.Sprintf("%s/v1/accounts/list/%s", url, accountID), &acts); err != nil {
		return err
	}

	if len(acts.Accounts) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), acts.Accounts[0].Balance)
	}

	return nil
}
