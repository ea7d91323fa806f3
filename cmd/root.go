package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/hKV/cmd/cache"
	"github.com/ValentinKolb/hKV/cmd/kv"
	"github.com/ValentinKolb/hKV/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "hkv",
		Short: "host key-value store",
		Long: fmt.Sprintf(`hKV (v%s)

A key-value and resource-cache library written in Go, providing
ephemeral and persistent storage facades behind a uniform API.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of hKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hKV v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(cache.CacheCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "backend"
	RootCmd.PersistentFlags().String(key, "mem", util.WrapString("storage backend to use (mem, bolt)"))
	key = "path"
	RootCmd.PersistentFlags().String(key, "", util.WrapString("database file path (required for the bolt backend)"))
	key = "quota"
	RootCmd.PersistentFlags().Int64(key, 0, util.WrapString("storage quota in bytes (0 disables the quota)"))
	key = "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("log level (debug, info, warning, error, critical)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
