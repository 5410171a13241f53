package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jnicall/config"
	"github.com/dhamidi/jnicall/rewrite"
)

func newGenerateCmd() *cobra.Command {
	var generateDryRun bool
	var generateCheck bool

	cmd := &cobra.Command{
		Use:   "generate [path...]",
		Short: "Expand the markers of every tagged Go file",
		Long: `Expand the markers of every Go file built only with the jnicall tag.

Each file foo.go is rendered to foo_gen.go, built without the tag.
Directories are walked recursively; the default path is ".".

Use --dry-run to print generated files instead of writing them and
--check to fail when a generated file is missing or out of date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			cfg, err := loadConfig(args[0])
			if err != nil {
				return err
			}

			if cfg.Package != "" {
				if err := config.SetPackageName(cfg.Package); err != nil {
					return err
				}
			}

			g := &rewrite.Generator{
				Config:   cfg,
				Registry: config.Global(),
				DryRun:   generateDryRun,
				Check:    generateCheck,
			}
			outs, err := g.Run(args)
			if err != nil {
				return err
			}

			problems, stale := 0, 0
			for _, out := range outs {
				for _, d := range out.Diagnostics {
					fmt.Fprintln(os.Stderr, d.Error())
					problems++
				}
				if len(out.Diagnostics) > 0 {
					continue
				}
				switch {
				case generateCheck && out.Stale:
					fmt.Fprintf(os.Stderr, "%s is out of date\n", out.Target)
					stale++
				case generateDryRun:
					fmt.Printf("// %s\n%s\n", out.Target, out.Data)
				}
			}
			if problems > 0 {
				return fmt.Errorf("%d problems", problems)
			}
			if stale > 0 {
				return fmt.Errorf("%d generated files out of date", stale)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&generateDryRun, "dry-run", "n", false, "print generated files instead of writing them")
	cmd.Flags().BoolVar(&generateCheck, "check", false, "fail if a generated file is missing or out of date")

	return cmd
}
