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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/tecmesh/container"
)

var convertCmd = &cobra.Command{
	Use:   "convert <tecplot> <basename>",
	Short: "Convert a tecplot FE file to an HDF5 mesh file",
	Long: `
Reconstructs the mesh and its fields and writes them to <basename>.h5 with the
datasets /mesh/vertices, /mesh/elements, /mesh/submesh,
/fields/field{k}/vectors and /fields/labels.

--format dir writes the same datasets to the directory <basename>.mesh instead,
one little endian array per dataset next to a manifest.yaml.

With --batch every argument is a tecplot file and run.tec is written to
run.h5 (or run.mesh).`,
	Args: func(cmd *cobra.Command, args []string) error {
		if batch, _ := cmd.Flags().GetBool("batch"); batch {
			return cobra.MinimumNArgs(1)(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		withXDMF, _ := cmd.Flags().GetBool("with-xdmf")
		if withXDMF {
			logger.Warn("xdmf output is not supported, writing the container only")
		}
		format, _ := cmd.Flags().GetString("format")
		if format != formatH5 && format != formatDir {
			return fmt.Errorf("unknown format %q, want %s or %s", format, formatH5, formatDir)
		}
		if batch, _ := cmd.Flags().GetBool("batch"); !batch {
			return runConvert(args[0], args[1], params.LabelWidth, format)
		}
		return forEachFile(cmd.Context(), args, params.NumWorkers(), func(_ int, file string) error {
			return runConvert(file, withExt(file, ""), params.LabelWidth, format)
		})
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().Bool("with-xdmf", false, "also request an XDMF sidecar (logged only)")
	convertCmd.Flags().BoolP("batch", "b", false, "treat every argument as an input file")
	convertCmd.Flags().StringP("format", "f", formatH5, "output format, h5 or dir")
}

const (
	formatH5  = "h5"
	formatDir = "dir"
)

func runConvert(input, basename string, labelWidth int, format string) (err error) {
	a, err := analyze(input)
	if err != nil {
		return
	}
	datasets, err := container.Layout(a.Mesh, labelWidth)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	var out string
	switch format {
	case formatDir:
		out = basename + ".mesh"
		err = container.WriteDir(out, a.Mesh.Label, datasets)
	default:
		out = container.H5Name(basename)
		err = container.WriteHDF5(out, datasets)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", out, err)
	}
	logger.Info("wrote mesh", zap.String("file", out), zap.String("format", format),
		zap.Int("datasets", len(datasets)))
	return
}
