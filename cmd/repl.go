package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cl-kim/gluesql/repl"
)

var (
	replCmd = &cobra.Command{
		Use:   "repl",
		Short: "Run with an interactive console session",
		Args:  cobra.NoArgs,
		RunE:  replRun,
	}
)

func init() {
	gluesqlCmd.AddCommand(replCmd)
}

func replRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	return repl.Interact(st, os.Stdout)
}
