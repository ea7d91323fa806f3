package kv

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// parseValue decodes a command line value: JSON if it parses, the raw string
// otherwise. This lets users pass objects and numbers without quoting games.
func parseValue(arg string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(arg), &v); err == nil {
		return v
	}
	return arg
}

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Stores the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := parseValue(args[1])

			returnStored, _ := cmd.Flags().GetBool("return")
			if returnStored {
				stored, err := kvStore.StoreGet(key, value)
				if err != nil {
					return err
				}
				fmt.Printf("stored: %v\n", stored)
				return nil
			}

			if err := kvStore.Store(key, value); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Retrieves the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, err := kvStore.Retrieve(key)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, value=%v\n", key, value)
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Removes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := kvStore.Remove(key); err != nil {
				return err
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Removes all entries from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := kvStore.Clear(); err != nil {
				return err
			}
			fmt.Println("cleared successfully")
			return nil
		},
	}
	cleanCmd = &cobra.Command{
		Use:   "clean",
		Short: "Removes entries with blank keys or empty values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := kvStore.Clean()
			if err != nil {
				return err
			}
			fmt.Printf("removed %d entries\n", removed)
			return nil
		},
	}
	amountCmd = &cobra.Command{
		Use:   "amount [key]",
		Short: "Reports the entry count, or the stored size of one key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				n, err := kvStore.AmountOf(args[0])
				if err != nil {
					return err
				}
				fmt.Printf("key=%s, size=%d bytes\n", args[0], n)
				return nil
			}

			n, err := kvStore.Amount()
			if err != nil {
				return err
			}
			fmt.Printf("entries=%d\n", n)
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints metadata about the underlying engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := kvStore.GetStorageInfo()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
)

func init() {
	setCmd.Flags().Bool("return", false, "re-read and print the entry after the write")
}
