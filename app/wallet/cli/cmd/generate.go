package cmd

import (
	"fmt"

	"github.com/ardanlabs/jackcoin/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	key, err := signature.GenerateKey()
	if err != nil {
		return err
	}

	path := getPrivateKeyPath()
	if err := key.Save(path); err != nil {
		return fmt.Errorf("saving key: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "key saved to %s\n", path)
	fmt.Fprintf(out, "private key: %s\n", key.PrivateHex())
	fmt.Fprintf(out, "public key : %s\n", key.PublicID())
	return nil
}
