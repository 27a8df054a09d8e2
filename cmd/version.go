package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cl-kim/gluesql/sql"
)

func init() {
	gluesqlCmd.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number of GlueSQL",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(sql.Version())
			},
		})
}
