package cache

import (
	"github.com/ValentinKolb/hKV/cmd/util"
	"github.com/ValentinKolb/hKV/lib/cache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	resourceCache *cache.Facade

	// CacheCommands represents the resource cache command group
	CacheCommands = &cobra.Command{
		Use:               "cache",
		Short:             "Perform resource cache operations",
		PersistentPreRunE: setupCache,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Flags
	CacheCommands.PersistentFlags().Duration("fetch-timeout", 0, "timeout for resource fetches (0 uses the default)")

	// Add subcommands
	CacheCommands.AddCommand(addCmd)
	CacheCommands.AddCommand(addAllCmd)
	CacheCommands.AddCommand(getCmd)
}

// setupCache builds the cache facade from the configuration
func setupCache(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	util.ApplyLogLevel()

	factory, err := util.GetEngineFactory()
	if err != nil {
		return err
	}

	opts := []cache.Option{}
	if timeout := viper.GetDuration("fetch-timeout"); timeout > 0 {
		opts = append(opts, cache.WithFetchTimeout(timeout))
	}

	resourceCache = cache.New(factory, opts...)
	return nil
}
