// Command declutter reads a transpiled program tree as JSON, runs the
// declaration reorganization pipeline once, and writes the rewritten
// tree back as JSON for the code generator.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/declutter-dev/declutter/prog"
	"github.com/declutter-dev/declutter/reorganize"
)

var (
	inputPath  string
	outputPath string

	rootCmd = &cobra.Command{
		Use:   "declutter",
		Short: "Merge header-duplicated declarations into owning modules",
		Long: `declutter depollutes a transpiled program from having the same
declarations in every module: each duplicated declaration is moved to
one canonical owning module, redundant copies and forward declarations
are removed, and cross-module references become consolidated imports.

The program tree is consumed and produced as JSON, so the surrounding
transpiler can hand trees across the process boundary.`,
		SilenceUsage: true,
		RunE:         run,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "-", "program tree JSON, - for stdin")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "-", "rewritten tree JSON, - for stdout")
	rootCmd.Flags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.Flags().String("catch-all", reorganize.DefaultCatchAll, "module absorbing system-header declarations")

	viper.SetEnvPrefix("DECLUTTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("log-level", rootCmd.Flags().Lookup("log-level"))
	_ = viper.BindPFlag("catch-all", rootCmd.Flags().Lookup("catch-all"))
}

func run(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "declutter",
		Level:  level,
	})

	data, err := readInput(inputPath)
	if err != nil {
		return err
	}
	var p prog.Program
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse program tree: %w", err)
	}

	alloc := prog.NewAllocatorAfter(&p)
	err = reorganize.Reorganize(&p, alloc, reorganize.Options{
		Logger:   logger,
		CatchAll: viper.GetString("catch-all"),
	})
	if err != nil {
		return fmt.Errorf("reorganize: %w", err)
	}
	logger.Debug("rewritten program", "dump", p.Dump())

	out, err := json.MarshalIndent(&p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode program tree: %w", err)
	}
	out = append(out, '\n')
	return writeOutput(outputPath, out)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
