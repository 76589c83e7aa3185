package cmd

import (
	"log"

	"github.com/findy-network/findy-a2a/cmds/key"
	"github.com/lainio/err2"
	"github.com/spf13/cobra"
)

// keyCmd represents the key subcommand
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Parent command for handling keys",
	Long: `
Parent command for handling keys
	`,
	Run: func(cmd *cobra.Command, _ []string) {
		SubCmdNeeded(cmd)
	},
}

var keyEnvs = map[string]string{
	"seed":    "SEED",
	"storage": "STORAGE",
}

// createKeyCmd represents the createkey subcommand
var createKeyCmd = &cobra.Command{
	Use:   "create",
	Short: "Command for creating keys",
	Long: `
Command for creating an ed25519 verkey and its DID, or with --storage the
sealing key for the agent storage.

Example
	findy-a2a key create \
		--seed 00000000000000000000thisisa_test

	findy-a2a key create --storage
	`,
	PreRunE: func(_ *cobra.Command, _ []string) (err error) {
		return BindEnvs(keyEnvs, "KEY")
	},
	RunE: func(_ *cobra.Command, _ []string) (err error) {
		return run(&keyCreateCmd)
	},
}

var keyCreateCmd = key.CreateCmd{}

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	createKeyCmd.Flags().StringVar(&keyCreateCmd.Seed, "seed", "", flagInfo("seed for key creation", keyCmd.Name(), keyEnvs["seed"]))
	createKeyCmd.Flags().BoolVar(&keyCreateCmd.Storage, "storage", false, flagInfo("create storage sealing key", keyCmd.Name(), keyEnvs["storage"]))

	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(createKeyCmd)
}
