package kv

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opCtx()
			defer cancel()
			key := args[0]
			value := args[1]
			if err := kvBackend.Set(ctx, key, []byte(value)); err != nil {
				return err
			} else {
				fmt.Println("set successfully")
			}
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opCtx()
			defer cancel()
			key := args[0]
			if resp, ok, err := kvBackend.Get(ctx, key); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, found=%v, resp=%s\n", key, ok, resp)
			}
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opCtx()
			defer cancel()
			key := args[0]
			if err := kvBackend.Delete(ctx, key); err != nil {
				return err
			} else {
				fmt.Println("delete successfully")
			}
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opCtx()
			defer cancel()
			key := args[0]
			if found, err := kvBackend.Has(ctx, key); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, found=%t\n", key, found)
			}
			return nil
		},
	}
	scanCmd = &cobra.Command{
		Use:   "scan [prefix]",
		Short: "Lists all keys with the given prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opCtx()
			defer cancel()
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			result, err := kvBackend.Scan(ctx, prefix)
			if err != nil {
				return err
			}
			for _, key := range result.Keys {
				fmt.Println(key)
			}
			fmt.Printf("%d key(s)\n", len(result.Keys))
			return nil
		},
	}
	queryCmd = &cobra.Command{
		Use:   "query [sql]",
		Short: "Executes an ad-hoc SQL statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opCtx()
			defer cancel()
			result, err := kvBackend.Query(ctx, args[0], nil)
			if err != nil {
				return err
			}

			// Write statements report the affected row count only
			if len(result.Rows) == 0 {
				fmt.Printf("%d row(s) affected\n", result.Affected)
				return nil
			}

			for i, row := range result.Rows {
				fmt.Printf("row %d:\n", i)
				for _, col := range row.Columns {
					if col.Value == nil {
						fmt.Printf("  %s: NULL\n", col.Name)
					} else {
						fmt.Printf("  %s: %s\n", col.Name, col.Value)
					}
				}
			}
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints the backend profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			caps := kvBackend.Capabilities()
			fmt.Printf("family:         %s\n", kvBackend.Family())
			fmt.Printf("transactions:   %t\n", caps.Transactions)
			fmt.Printf("sql queries:    %t\n", caps.SQLQueries)
			fmt.Printf("indexes:        %t\n", caps.Indexes)
			fmt.Printf("max key size:   %d\n", caps.MaxKeySize)
			fmt.Printf("max value size: %d\n", caps.MaxValueSize)
			return nil
		},
	}
)
