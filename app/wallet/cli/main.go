// This program provides a wallet for key generation, signing and
// sending transactions to a ledger node.
package main

import "github.com/ardanlabs/jackcoin/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
