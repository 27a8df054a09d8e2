package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/cl-kim/gluesql/storage"
)

const (
	gluesqlHistory = ".gluesql_history"

	prompt         = "gluesql> "
	continuePrompt = "      -> "
)

// Interact runs an interactive console until end of input. Lines are collected until one
// ends with a semicolon and then run as a script.
func Interact(st storage.StoreMut, w io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(gluesqlHistory); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	var script strings.Builder
	for {
		p := prompt
		if script.Len() > 0 {
			p = continuePrompt
		}

		s, err := line.Prompt(p)
		if err == liner.ErrPromptAborted {
			script.Reset()
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		line.AppendHistory(s)

		script.WriteString(s)
		script.WriteByte('\n')
		if strings.HasSuffix(strings.TrimSpace(s), ";") {
			Run(st, script.String(), w)
			script.Reset()
		}
	}

	if script.Len() > 0 {
		Run(st, script.String(), w)
	}

	if f, err := os.Create(gluesqlHistory); err != nil {
		fmt.Fprintf(os.Stderr, "gluesql: error writing history file, %s: %s\n", gluesqlHistory,
			err)
	} else {
		line.WriteHistory(f)
		f.Close()
	}
	return nil
}
