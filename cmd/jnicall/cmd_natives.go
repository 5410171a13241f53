package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jnicall/classfile"
	"github.com/dhamidi/jnicall/rewrite"
)

func newNativesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "natives <file.class>...",
		Short: "List the native methods of compiled classes and their JNI symbols",
		Long: `List every native method declared by the given class files together
with the symbol the JVM resolves it to. Overloaded natives get the long
symbol that includes the argument descriptor.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				c, err := classfile.ParseFile(path)
				if err != nil {
					return err
				}
				for _, m := range c.Natives() {
					symbol := rewrite.ExportName("", c.Name, m.Name)
					if c.Overloaded(m.Name) {
						symbol = rewrite.OverloadedExportName("", c.Name, m.Name, m.Descriptor)
					}
					fmt.Printf("%s\t%s\n", symbol, m.Declaration())
				}
			}
			return nil
		},
	}
}
