package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jnicall/codegen"
)

func newExpandCmd() *cobra.Command {
	var expandEnv string
	var expandPlan bool

	cmd := &cobra.Command{
		Use:   "expand [expression]",
		Short: "Print the Go code a call expression expands to",
		Long: `Print the Go code a call expression expands to.

If no expression is provided, reads it from stdin. The bridge package is
taken from the nearest jnicall.yaml.

Use --plan to list the bridge operations instead of the code.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readExpression(args)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(".")
			if err != nil {
				return err
			}

			out, plan, err := codegen.Expand(src, cfg.Options(expandEnv))
			if err != nil {
				return err
			}
			if expandPlan {
				fmt.Print(plan.String())
				return nil
			}
			fmt.Println(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&expandEnv, "env", "env", "Go expression for the bridge environment")
	cmd.Flags().BoolVar(&expandPlan, "plan", false, "print the lowered operations")

	return cmd
}

func readExpression(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
