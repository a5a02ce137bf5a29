/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/tecmesh/hysteresis"
)

var loopavgCmd = &cobra.Command{
	Use:   "loopavg <dir> <regex> <output>",
	Short: "Average a set of hysteresis loop files",
	Long: `
Selects the regular files in <dir> whose name matches <regex>, checks that they
sweep the same applied fields and writes the averaged loop to <output> as
B (Tesla), <M> (Am^2), Ms (A/m), Volume (m^3).

<M> is the averaged moment projected on the field direction.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoopAvg(args[0], args[1], args[2])
	},
}

func init() {
	rootCmd.AddCommand(loopavgCmd)
}

func runLoopAvg(dir, pattern, output string) (err error) {
	var (
		files []string
		st    *hysteresis.Stack
		f     *os.File
	)
	if files, err = SelectLoopFiles(dir, pattern); err != nil {
		return
	}
	logger.Info("processing loop files", zap.Int("count", len(files)))
	for _, fn := range files {
		logger.Debug("loop file", zap.String("file", fn))
	}
	if st, err = hysteresis.ReadLoopFiles(files); err != nil {
		return
	}
	if f, err = os.Create(output); err != nil {
		return fmt.Errorf("unable to create %s: %w", output, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err = WriteLoopTable(f, st.Average()); err != nil {
		return fmt.Errorf("%s: %w", output, err)
	}
	logger.Info("wrote average loop", zap.String("file", output), zap.Int("rows", st.Steps))
	return
}

// SelectLoopFiles returns the regular files in dir, or links to them, whose
// base name matches pattern anywhere, sorted by name
func SelectLoopFiles(dir, pattern string) (files []string, err error) {
	var (
		re      *regexp.Regexp
		entries []os.DirEntry
	)
	if re, err = regexp.Compile(pattern); err != nil {
		return nil, fmt.Errorf("loop file pattern: %w", err)
	}
	if entries, err = os.ReadDir(dir); err != nil {
		return nil, fmt.Errorf("unable to list loop files: %w", err)
	}
	for _, e := range entries {
		if !re.MatchString(e.Name()) {
			continue
		}
		fn := filepath.Join(dir, e.Name())
		// Stat follows symlinks, dangling links are skipped
		if info, serr := os.Stat(fn); serr != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, fn)
	}
	return
}

// WriteLoopTable writes the averaged loop, one field step per line
func WriteLoopTable(w io.Writer, avg []hysteresis.Measurement) (err error) {
	if _, err = fmt.Fprintf(w, "%15s, %15s, %15s, %15s\n",
		"B (Tesla)", "<M> (Am^2)", "Ms (A/m)", "Volume (m^3)"); err != nil {
		return
	}
	for _, m := range avg {
		if _, err = fmt.Fprintf(w, "%15.8E, %15.8E, %15.8E, %15.8E\n",
			m.B, m.Parallel(), m.Ms, m.Vol); err != nil {
			return
		}
	}
	return
}
