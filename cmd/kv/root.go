package kv

import (
	"github.com/ValentinKolb/hKV/cmd/util"
	"github.com/ValentinKolb/hKV/lib/store"
	"github.com/spf13/cobra"
)

var (
	kvStore store.IStore

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform key-value store operations",
		PersistentPreRunE: setupStore,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(clearCmd)
	KeyValueCommands.AddCommand(cleanCmd)
	KeyValueCommands.AddCommand(amountCmd)
	KeyValueCommands.AddCommand(infoCmd)
}

// setupStore builds the storage facade from the configuration
func setupStore(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	util.ApplyLogLevel()

	// Get serializer and engine
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	factory, err := util.GetEngineFactory()
	if err != nil {
		return err
	}

	kvStore = store.New(factory, store.WithSerializer(s))
	return nil
}
