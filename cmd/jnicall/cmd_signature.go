package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jnicall/callexpr"
	"github.com/dhamidi/jnicall/descriptor"
)

func newSignatureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signature [descriptor | expression]",
		Short: "Decode a JNI method descriptor into its Java form",
		Long: `Decode a JNI method descriptor such as (Z[I)V into the Java declaration
it describes.

Given a call expression instead, print the signature it is invoked with
before decoding it. Reads from stdin when no argument is provided.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readExpression(args)
			if err != nil {
				return err
			}

			// (holder.obj).run() -> void is a call, not a descriptor
			if method, err := descriptor.ParseMethod(src); err == nil {
				fmt.Println(method)
				return nil
			} else if strings.HasPrefix(src, "(") && !strings.Contains(src, "->") {
				return err
			}

			call, err := callexpr.Parse(src)
			if err != nil {
				return err
			}
			method, err := descriptor.ParseMethod(call.Signature())
			if err != nil {
				return err
			}
			fmt.Println(call.Signature())
			fmt.Println(method.Declaration(call.Method))
			return nil
		},
	}
}
