package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jnicall/config"
	"github.com/dhamidi/jnicall/rewrite"
)

func newMangleCmd() *cobra.Command {
	var manglePackage string

	cmd := &cobra.Command{
		Use:   "mangle <class> <function>",
		Short: "Print the JNI symbol name of a native method",
		Long: `Print the symbol the JVM looks up for a native method.

The package defaults to the one configured in the nearest jnicall.yaml.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg := manglePackage
			if !cmd.Flags().Changed("package") {
				cfg, err := loadConfig(".")
				if err != nil {
					return err
				}
				if cfg.Package != "" {
					if err := config.SetPackageName(cfg.Package); err != nil {
						return err
					}
				}
				// classes in the default package have no prefix
				pkg, err = config.PackageName()
				if err != nil && !errors.Is(err, config.ErrPackageNotConfigured) {
					return err
				}
			}
			fmt.Println(rewrite.ExportName(pkg, args[0], args[1]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&manglePackage, "package", "p", "", "Java package of the class")

	return cmd
}
