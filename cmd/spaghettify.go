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
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var spaghettifyCmd = &cobra.Command{
	Use:   "spaghettify <output>",
	Short: "Rewrite a block of floats from stdin as a single column",
	Long: `
Reads whitespace delimited floats from stdin until end of input and writes them
to <output>, one per line:

1.0 2.0 3.0        1.0000000E+00
4.0         ==>    2.0000000E+00
                   3.0000000E+00
                   4.0000000E+00`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.ErrOrStderr(),
			"Paste whitespace delimited floats (newlines allowed), then Ctrl+D when done:")
		n, err := runSpaghettify(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d floats written to %s\n", n, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(spaghettifyCmd)
}

func runSpaghettify(r io.Reader, output string) (n int, err error) {
	var (
		data   []byte
		floats []float64
	)
	if data, err = io.ReadAll(r); err != nil {
		return
	}
	if floats, err = ParseFloats(data); err != nil {
		return
	}
	var buf bytes.Buffer
	for _, f := range floats {
		fmt.Fprintf(&buf, "%.7E\n", f)
	}
	if err = os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return 0, fmt.Errorf("unable to write %s: %w", output, err)
	}
	logger.Debug("spaghettified", zap.String("file", output), zap.Int("floats", len(floats)))
	return len(floats), nil
}

// ParseFloats splits data on whitespace and parses every token as a float
func ParseFloats(data []byte) (floats []float64, err error) {
	for i, tok := range bytes.Fields(data) {
		var f float64
		if f, err = strconv.ParseFloat(string(tok), 64); err != nil {
			return nil, fmt.Errorf("token %d: %w", i+1, err)
		}
		floats = append(floats, f)
	}
	return
}
