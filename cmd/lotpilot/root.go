package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin/binding"
	"github.com/spf13/cobra"

	"github.com/ajharbinger/lotpilot/internal/logger"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "lotpilot",
		Short:         "Used-vehicle pricing and sale-probability analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newIdentifyCmd(opts))
	root.AddCommand(newCompsCmd())
	return root
}

func (o *rootOptions) logger() logger.Logger {
	return logger.New(o.logLevel, "console")
}

// validate applies the same binding rules the HTTP API enforces
func validate(v interface{}) error {
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readInput reads path, or stdin when path is "-"
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
