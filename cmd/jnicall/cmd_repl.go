package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/dhamidi/jnicall/callexpr"
	"github.com/dhamidi/jnicall/codegen"
	"github.com/dhamidi/jnicall/jni"
	"github.com/dhamidi/jnicall/jni/jnitest"
)

const (
	historyFile = ".jnicall_history"
	promptMain  = "jnicall> "
)

var errQuit = errors.New("quit")

func newReplCmd() *cobra.Command {
	var replEnv string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Expand call expressions interactively",
		Long: `Read call expressions and print their expansion.

Commands:
  :plan <expr>    list the bridge operations
  :sig <expr>     print the JNI signature
  :trace <expr>   run the expansion against a recording bridge
  :null <expr>    as :trace, with the method returning null
  :throw <expr>   as :trace, with the method throwing
  :quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(".")
			if err != nil {
				return err
			}
			return runRepl(cfg.Options(replEnv))
		},
	}

	cmd.Flags().StringVar(&replEnv, "env", "env", "Go expression for the bridge environment")

	return cmd
}

func runRepl(opts codegen.Options) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completeKeyword)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		out, err := evalLine(line, opts)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Println(out)
	}
}

func evalLine(line string, opts codegen.Options) (string, error) {
	command, src := "", line
	if strings.HasPrefix(line, ":") {
		command, src, _ = strings.Cut(line, " ")
		src = strings.TrimSpace(src)
	}

	if command == ":quit" || command == ":q" {
		return "", errQuit
	}
	if command == "" {
		out, _, err := codegen.Expand(src, opts)
		return out, err
	}

	call, err := callexpr.Parse(src)
	if err != nil {
		return "", err
	}
	switch command {
	case ":plan":
		return strings.TrimSuffix(codegen.Lower(call).String(), "\n"), nil
	case ":sig":
		return call.Signature(), nil
	case ":trace", ":null", ":throw":
		return trace(call, command), nil
	}
	return "", fmt.Errorf("unknown command %s; try :plan, :sig, :trace, :null, :throw or :quit", command)
}

// trace runs call against a recording bridge. Every object expression is
// bound to a named reference; primitive values must be literals.
func trace(call *callexpr.MethodCall, mode string) string {
	bind := codegen.Bindings{}
	ref := func(expr string) {
		bind[expr] = &jnitest.Ref{Name: expr}
	}
	if call.Target.Kind == callexpr.TargetInstance {
		ref(call.Target.Receiver)
	}
	for _, p := range call.Params {
		switch {
		case p.Kind == callexpr.ParamArrayLiteral && p.Type.IsObject():
			for _, e := range p.Elements {
				ref(e)
			}
		case p.Kind == callexpr.ParamArray || p.Type.IsObject():
			ref(p.Value)
		}
	}

	result := sampleResult(call.Return.Payload())
	if mode == ":null" {
		result = jni.Ref(jnitest.Null)
	}
	env := jnitest.NewEnv(result)
	if mode == ":throw" {
		env.Exception = &jni.Exception{Class: "java.lang.RuntimeException", Message: "thrown by " + call.Method}
	}

	outcome, err := codegen.Exec(codegen.Lower(call), env, bind)

	var sb strings.Builder
	for _, c := range env.Calls {
		sb.WriteString(c.String())
		sb.WriteString("\n")
	}
	var fatal *codegen.FatalError
	switch {
	case errors.As(err, &fatal):
		fmt.Fprintf(&sb, "panic: %v", fatal.Err)
	case err != nil:
		fmt.Fprintf(&sb, "error: %v", err)
	case outcome.Err != nil:
		fmt.Fprintf(&sb, "=> error %v", outcome.Err)
	case !codegen.ShapeOf(&call.Return).Value:
		sb.WriteString("=> ok")
	case !outcome.Present:
		sb.WriteString("=> absent")
	default:
		fmt.Fprintf(&sb, "=> %v", outcome.Value)
	}
	return sb.String()
}

func sampleResult(ty callexpr.Type) jni.Value {
	if ty.IsObject() {
		return jni.Ref(&jnitest.Ref{Name: "result"})
	}
	switch ty.Primitive() {
	case callexpr.JavaBoolean:
		return jni.Boolean(1)
	case callexpr.JavaByte:
		return jni.Byte(-1)
	case callexpr.JavaChar:
		return jni.Char('j')
	case callexpr.JavaShort:
		return jni.Short(-1)
	case callexpr.JavaInt:
		return jni.Int(-1)
	case callexpr.JavaLong:
		return jni.Long(-1)
	case callexpr.JavaFloat:
		return jni.Float(1.5)
	case callexpr.JavaDouble:
		return jni.Double(1.5)
	}
	return jni.Void()
}

func completeKeyword(line string) []string {
	start := strings.LastIndexAny(line, " (<,[") + 1
	prefix := line[start:]
	if prefix == "" {
		return nil
	}
	var out []string
	for _, kw := range append(callexpr.Keywords(), "static", "Option", "Result", "String") {
		if strings.HasPrefix(kw, prefix) {
			out = append(out, line[:start]+kw)
		}
	}
	return out
}
