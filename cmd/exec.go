package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cl-kim/gluesql/repl"
)

var (
	execCmd = &cobra.Command{
		Use:   "exec [file ...]",
		Short: "Execute sql files and queries",
		RunE:  execRun,
	}

	sqlArgs = []string{}
)

func init() {
	execCmd.Flags().StringSliceVar(&sqlArgs, "sql", sqlArgs,
		"sql `query` to execute; multiple allowed")

	gluesqlCmd.AddCommand(execCmd)
}

func execRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	for _, arg := range args {
		b, err := ioutil.ReadFile(arg)
		if err != nil {
			return fmt.Errorf("gluesql: sql file: %s", err)
		}
		log.WithField("file", arg).Debug("exec")
		repl.Run(st, string(b), os.Stdout)
	}

	for _, arg := range sqlArgs {
		repl.Run(st, arg, os.Stdout)
	}
	return nil
}
