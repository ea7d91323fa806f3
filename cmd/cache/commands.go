package cache

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addCmd = &cobra.Command{
		Use:   "add [cache] [url]",
		Short: "Fetches a resource and stores the response in a named cache",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, url := args[0], args[1]
			overwrite, _ := cmd.Flags().GetBool("overwrite")

			if err := resourceCache.Add(cmd.Context(), name, url, overwrite); err != nil {
				return err
			}
			fmt.Printf("cached %s in %q\n", url, name)
			return nil
		},
	}
	addAllCmd = &cobra.Command{
		Use:   "add-all [cache] [url...]",
		Short: "Fetches multiple resources into a named cache",
		Long: "Fetches multiple resources into a named cache.\n" +
			"Without --overwrite the operation is atomic: if any fetch fails, nothing is stored.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, urls := args[0], args[1:]
			overwrite, _ := cmd.Flags().GetBool("overwrite")

			if err := resourceCache.AddAll(cmd.Context(), name, urls, overwrite); err != nil {
				return err
			}
			fmt.Printf("cached %d resources in %q\n", len(urls), name)
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [cache] [url]",
		Short: "Retrieves a cached response and prints its body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, url := args[0], args[1]

			resp, err := resourceCache.Retrieve(name, url)
			if err != nil {
				return err
			}
			if resp == nil {
				fmt.Println("cache miss")
				return nil
			}
			fmt.Printf("%s (fetched %s)\n", resp.Status, resp.FetchedAt.Format("2006-01-02 15:04:05"))
			fmt.Println(string(resp.Body))
			return nil
		},
	}
)

func init() {
	addCmd.Flags().Bool("overwrite", false, "re-fetch even if the resource is already cached")
	addAllCmd.Flags().Bool("overwrite", false, "re-fetch each resource independently, collecting errors")
}
