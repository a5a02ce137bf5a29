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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var quantsCmd = &cobra.Command{
	Use:   "quants <tecplot> <output.csv>",
	Short: "Net magnetic moment of each field in a tecplot file",
	Long: `
Reconstructs the mesh, computes its volume and the net moment of every field,
and writes one CSV row per field: index,mom_x,mom_y,mom_z (index is 1-based).

With --batch every argument is a tecplot file, analysed in parallel, and the
moments of run.tec are written to run.csv.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if batch, _ := cmd.Flags().GetBool("batch"); batch {
			return cobra.MinimumNArgs(1)(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if batch, _ := cmd.Flags().GetBool("batch"); !batch {
			return runQuants(args[0], args[1])
		}
		return forEachFile(cmd.Context(), args, params.NumWorkers(), func(_ int, file string) error {
			return runQuants(file, withExt(file, ".csv"))
		})
	},
}

func init() {
	rootCmd.AddCommand(quantsCmd)
	quantsCmd.Flags().BoolP("batch", "b", false, "treat every argument as an input file")
}

func runQuants(input, output string) (err error) {
	var (
		a *Analysis
		f *os.File
	)
	if a, err = analyze(input); err != nil {
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
	if err = WriteMomentsCSV(f, a.Moments); err != nil {
		return fmt.Errorf("%s: %w", output, err)
	}
	logger.Info("wrote net moments", zap.String("file", output), zap.Int("rows", len(a.Moments)))
	return
}

// WriteMomentsCSV writes a header and one row per field, numbered from 1
func WriteMomentsCSV(w io.Writer, moments [][3]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "mom_x", "mom_y", "mom_z"}); err != nil {
		return err
	}
	row := make([]string, 4)
	for i, m := range moments {
		row[0] = strconv.Itoa(i + 1)
		for j := 0; j < 3; j++ {
			row[j+1] = strconv.FormatFloat(m[j], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
