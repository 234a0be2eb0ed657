package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shoecreatify/shoecreatify-api/db"
	"github.com/spf13/cobra"
)

var (
	listQuery    string
	listSort     string
	listPage     int
	listPageSize int
)

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}

var listAccountsCommand = cobra.Command{
	Use:   "ls",
	Short: "Lists accounts",
	Long: `This will list accounts, --query takes a FIQL expression
	e.g. account_type==local;is_email_verified==false`,
	Run: func(cmd *cobra.Command, args []string) {
		dataStore := mustResolveUsableDataStore()
		defer dataStore.Close()
		lst, total, err := dataStore.Accounts(context.Background(), db.ListOptions{
			Page:     listPage,
			PageSize: listPageSize,
			Sort:     listSort,
			Query:    listQuery,
		})
		if err != nil {
			fmt.Printf("Unable to load accounts: %s\r\n", err)
			os.Exit(1)
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 1, 1, 1, ' ', 0)
		fmt.Fprintf(
			w,
			"%s\t%s\t%s\t%s\t%s\t%s\t%s\r\n",
			"ID",
			"Email",
			"Type",
			"Status",
			"Verified",
			"LastLogin",
			"Created",
		)
		for _, v := range lst {
			created := v.CreatedAt
			fmt.Fprintf(
				w,
				"%s\t%s\t%s\t%s\t%v\t%s\t%s\r\n",
				v.ID,
				v.Email,
				v.AccountType,
				v.RegistrationStatus,
				v.IsEmailVerified,
				formatTime(v.LastLogin),
				formatTime(&created),
			)
		}

		fmt.Fprintf(w, "------------------------------------------------- \r\n")
		fmt.Fprintf(w, "%d entries loaded, %d total\r\n", len(lst), total)
		w.Flush()
	},
}

func init() {
	listAccountsCommand.Flags().StringVarP(&listQuery, "query", "q", "", "FIQL filter")
	listAccountsCommand.Flags().StringVar(&listSort, "sort", "", "column to sort by")
	listAccountsCommand.Flags().IntVar(&listPage, "page", 1, "page to show")
	listAccountsCommand.Flags().IntVar(&listPageSize, "page-size", 50, "entries per page")
}
