// Command pijamac drives the MIR-to-x86-64 back end end to end: pick a
// bundled example function, lower it, optionally run the dead-jump
// peephole pass, assemble it, and either print its intermediate forms or
// write a relocatable ELF64 object.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pijama-lang/pijamac/internal/amd64"
	"github.com/pijama-lang/pijamac/internal/examples"
	"github.com/pijama-lang/pijamac/internal/lower"
	"github.com/pijama-lang/pijamac/internal/objfile"
	"github.com/pijama-lang/pijamac/internal/peephole"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pijamac:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pijamac",
		Short: "experimental MIR-to-x86-64 back end for Pijama",
	}

	root.AddCommand(newDumpCmd())
	root.AddCommand(newGraphvizCmd())
	root.AddCommand(newCompileCmd())
	return root
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <example>",
		Short: "print a bundled example function's MIR",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		fn, ok := examples.Get(args[0])
		if !ok {
			return unknownExampleError(args[0])
		}
		fmt.Fprint(cmd.OutOrStdout(), fn.Dump())
		return nil
	}
	return cmd
}

func newGraphvizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphviz <example>",
		Short: "print a bundled example function's CFG as Graphviz dot",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		fn, ok := examples.Get(args[0])
		if !ok {
			return unknownExampleError(args[0])
		}
		fmt.Fprint(cmd.OutOrStdout(), fn.Graphviz())
		return nil
	}
	return cmd
}

func newCompileCmd() *cobra.Command {
	var output string
	var noPeephole bool
	var noOptimizeLoadImm bool
	var dumpAsm bool

	cmd := &cobra.Command{
		Use:   "compile <example>",
		Short: "lower, optimize, and assemble a bundled example into an ELF64 object",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "object file to write (default: <example>.o)")
	cmd.Flags().BoolVar(&noPeephole, "no-peephole", false, "skip the dead-jump peephole pass")
	cmd.Flags().BoolVar(&noOptimizeLoadImm, "no-optimize-loadimm", false, "always emit the full imm64 mov for LoadImm instead of the shortest encoding")
	cmd.Flags().BoolVar(&dumpAsm, "dump-asm", false, "print the abstract instruction list to stderr before assembling")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		name := args[0]
		fn, ok := examples.Get(name)
		if !ok {
			return unknownExampleError(name)
		}

		instructions := lower.LowerWithConfig(fn, lower.DefaultConfig())
		if !noPeephole {
			peephole.Run[amd64.Register](instructions)
		}
		if dumpAsm {
			fmt.Fprint(os.Stderr, instructions.Dump())
		}

		asmCfg := amd64.DefaultConfig()
		if noOptimizeLoadImm {
			asmCfg.Optimize = false
		}
		code, err := amd64.AssembleWithConfig(instructions, asmCfg)
		if err != nil {
			return fmt.Errorf("assembling %q: %w", name, err)
		}

		w := objfile.NewWriter()
		w.AddTextSymbol(name, code)

		path := output
		if path == "" {
			path = name + ".o"
		}
		if err := os.WriteFile(path, w.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		fmt.Fprintf(os.Stderr, "wrote %d bytes of code to %s\n", len(code), path)
		return nil
	}
	return cmd
}

func unknownExampleError(name string) error {
	return fmt.Errorf("unknown example %q (available: %s)", name, strings.Join(examples.Names(), ", "))
}
