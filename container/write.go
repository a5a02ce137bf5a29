package container

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
)

const ManifestName = "manifest.yaml"

type Manifest struct {
	Label    string          `json:"label"`
	Datasets []ManifestEntry `json:"datasets"`
}

type ManifestEntry struct {
	Path  string `json:"path"`
	DType DType  `json:"dtype"`
	Shape []int  `json:"shape"`
	Width int    `json:"width,omitempty"`
	File  string `json:"file"`
}

func dataFile(path string) string {
	return filepath.FromSlash(strings.TrimPrefix(path, "/")) + ".bin"
}

// WriteDir writes every dataset to dir/<path>.bin and the manifest to
// dir/manifest.yaml. dir is created if needed.
func WriteDir(dir, label string, datasets []Dataset) (err error) {
	man := Manifest{Label: label}
	for i := range datasets {
		ds := &datasets[i]
		rel := dataFile(ds.Path)
		if err = writeDataset(filepath.Join(dir, rel), ds); err != nil {
			return fmt.Errorf("writing dataset %s: %w", ds.Path, err)
		}
		man.Datasets = append(man.Datasets, ManifestEntry{
			Path: ds.Path, DType: ds.DType, Shape: ds.Shape, Width: ds.Width, File: filepath.ToSlash(rel),
		})
	}
	var data []byte
	if data, err = yaml.Marshal(&man); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ManifestName), data, 0644)
}

func writeDataset(filename string, ds *Dataset) (err error) {
	var (
		file *os.File
	)
	if err = os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return
	}
	if file, err = os.Create(filename); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(file)
	switch ds.DType {
	case Float64:
		err = binary.Write(w, binary.LittleEndian, ds.Float64)
	case Uint64:
		err = binary.Write(w, binary.LittleEndian, ds.Uint64)
	case ASCII:
		pad := make([]byte, ds.Width)
		for _, s := range ds.Strings {
			copy(pad, s)
			for i := len(s); i < ds.Width; i++ {
				pad[i] = 0
			}
			if _, err = w.Write(pad); err != nil {
				return
			}
		}
	default:
		return fmt.Errorf("unknown dtype %q", ds.DType)
	}
	if err != nil {
		return
	}
	return w.Flush()
}

// ReadDir loads a container written by WriteDir
func ReadDir(dir string) (man *Manifest, datasets []Dataset, err error) {
	var (
		data []byte
	)
	if data, err = os.ReadFile(filepath.Join(dir, ManifestName)); err != nil {
		return
	}
	man = &Manifest{}
	if err = yaml.Unmarshal(data, man); err != nil {
		return nil, nil, fmt.Errorf("bad manifest in %s: %w", dir, err)
	}
	for _, e := range man.Datasets {
		ds := Dataset{Path: e.Path, DType: e.DType, Shape: e.Shape, Width: e.Width}
		if err = readDataset(filepath.Join(dir, filepath.FromSlash(e.File)), &ds); err != nil {
			return nil, nil, fmt.Errorf("reading dataset %s: %w", e.Path, err)
		}
		datasets = append(datasets, ds)
	}
	return
}

func readDataset(filename string, ds *Dataset) (err error) {
	var (
		file *os.File
		n    = ds.Len()
	)
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	r := bufio.NewReader(file)
	switch ds.DType {
	case Float64:
		ds.Float64 = make([]float64, n)
		return binary.Read(r, binary.LittleEndian, ds.Float64)
	case Uint64:
		ds.Uint64 = make([]uint64, n)
		return binary.Read(r, binary.LittleEndian, ds.Uint64)
	case ASCII:
		buf := make([]byte, ds.Width*n)
		if err = binary.Read(r, binary.LittleEndian, buf); err != nil {
			return
		}
		ds.Strings = make([]string, n)
		for i := 0; i < n; i++ {
			ds.Strings[i] = strings.TrimRight(string(buf[i*ds.Width:(i+1)*ds.Width]), "\x00")
		}
		return nil
	default:
		return fmt.Errorf("unknown dtype %q", ds.DType)
	}
}
