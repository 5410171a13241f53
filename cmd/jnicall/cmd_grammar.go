package main

import (
	"fmt"
	"os"
	"reflect"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jnicall/callexpr"
)

func newGrammarCmd() *cobra.Command {
	var listProductions bool

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print the call-expression grammar",
		Long: `Print the EBNF grammar of call expressions after verifying it.

With --productions, print only the production names.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := callexpr.Grammar()
			if err != nil {
				printErrors(err)
				return err
			}
			if !listProductions {
				_, err := os.Stdout.Write(callexpr.GrammarSource)
				return err
			}
			names := make([]string, 0, len(g))
			for name := range g {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listProductions, "productions", false, "list production names only")

	return cmd
}

// printErrors prints one line per error when err is an error list.
func printErrors(err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(os.Stderr, v.Index(i).Interface())
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
