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
	"context"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/notargets/tecmesh/mesh"
)

// Analysis is one reconstructed tecplot file and its integrals
type Analysis struct {
	File    string
	Mesh    *mesh.Mesh
	Volume  float64
	Moments [][3]float64
}

func analyze(filename string) (a *Analysis, err error) {
	start := time.Now()
	a = &Analysis{File: filename}
	if a.Mesh, err = mesh.ReadTecplot(filename); err != nil {
		return nil, err
	}
	if a.Volume, err = a.Mesh.ComputeVolume(); err != nil {
		return nil, err
	}
	if a.Moments, err = a.Mesh.ComputeNetMoments(); err != nil {
		return nil, err
	}
	logger.Info("analysed mesh",
		zap.String("file", filename),
		zap.Int("vertices", a.Mesh.NumVertices()),
		zap.Int("elements", a.Mesh.NumElements()),
		zap.Float64("volume", a.Volume),
		zap.Int("fields", len(a.Moments)),
		zap.Duration("elapsed", time.Since(start)))
	return
}

// forEachFile runs fn over files with at most workers in flight. The first
// failure cancels the files not yet started.
func forEachFile(ctx context.Context, files []string, workers int,
	fn func(i int, file string) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(i, file)
		})
	}
	return g.Wait()
}

// withExt swaps the extension of file for ext
func withExt(file, ext string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + ext
}
