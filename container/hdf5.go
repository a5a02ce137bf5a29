package container

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"gonum.org/v1/hdf5"
)

// WriteHDF5 creates filename, truncating any existing file, and writes every
// dataset at its path. Groups on the way to each path are created as needed.
// Labels are stored as fixed width NUL padded C strings.
func WriteHDF5(filename string, datasets []Dataset) (err error) {
	var (
		f *hdf5.File
	)
	if f, err = hdf5.CreateFile(filename, hdf5.F_ACC_TRUNC); err != nil {
		return fmt.Errorf("unable to create %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	groups := make(map[string]bool)
	for i := range datasets {
		ds := &datasets[i]
		if err = makeGroups(f, path.Dir(ds.Path), groups); err != nil {
			return fmt.Errorf("%s: %w", ds.Path, err)
		}
		if err = writeH5Dataset(f, ds); err != nil {
			return fmt.Errorf("writing dataset %s: %w", ds.Path, err)
		}
	}
	return
}

func makeGroups(f *hdf5.File, dir string, made map[string]bool) error {
	if dir == "/" || dir == "." || made[dir] {
		return nil
	}
	if err := makeGroups(f, path.Dir(dir), made); err != nil {
		return err
	}
	g, err := f.CreateGroup(dir)
	if err != nil {
		return err
	}
	made[dir] = true
	return g.Close()
}

func h5Dims(shape []int) []uint {
	dims := make([]uint, len(shape))
	for i, s := range shape {
		dims[i] = uint(s)
	}
	return dims
}

func writeH5Dataset(f *hdf5.File, ds *Dataset) (err error) {
	var (
		dtype  *hdf5.Datatype
		space  *hdf5.Dataspace
		dset   *hdf5.Dataset
		buffer interface{}
	)
	switch ds.DType {
	case Float64:
		dtype, buffer = hdf5.T_NATIVE_DOUBLE, &ds.Float64
	case Uint64:
		dtype, buffer = hdf5.T_NATIVE_UINT64, &ds.Uint64
	case ASCII:
		if dtype, err = hdf5.T_C_S1.Copy(); err != nil {
			return
		}
		defer dtype.Close()
		if err = dtype.SetSize(uint(ds.Width)); err != nil {
			return
		}
		packed := packASCII(ds.Strings, ds.Width)
		buffer = &packed
	default:
		return fmt.Errorf("unknown dtype %q", ds.DType)
	}
	if space, err = hdf5.CreateSimpleDataspace(h5Dims(ds.Shape), nil); err != nil {
		return
	}
	defer space.Close()
	if dset, err = f.CreateDataset(ds.Path, dtype, space); err != nil {
		return
	}
	defer func() {
		if cerr := dset.Close(); err == nil {
			err = cerr
		}
	}()
	if ds.Len() == 0 {
		return
	}
	return dset.Write(buffer)
}

// packASCII lays strings end to end in width byte cells, NUL padded
func packASCII(strs []string, width int) []byte {
	buf := make([]byte, len(strs)*width)
	for i, s := range strs {
		copy(buf[i*width:(i+1)*width], s)
	}
	return buf
}

func unpackASCII(buf []byte, n, width int) []string {
	strs := make([]string, n)
	for i := range strs {
		strs[i] = string(bytes.TrimRight(buf[i*width:(i+1)*width], "\x00"))
	}
	return strs
}

// ReadHDF5 loads the datasets of a mesh file written by WriteHDF5, in Layout
// order. The number of fields is taken from /fields/labels.
func ReadHDF5(filename string) (datasets []Dataset, err error) {
	var (
		f *hdf5.File
	)
	if f, err = hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY); err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", filename, err)
	}
	defer f.Close()
	labels := Dataset{Path: "/fields/labels", DType: ASCII}
	if err = readH5Dataset(f, &labels); err != nil {
		return
	}
	datasets = []Dataset{
		{Path: "/mesh/vertices", DType: Float64},
		{Path: "/mesh/elements", DType: Uint64},
		{Path: "/mesh/submesh", DType: Uint64},
	}
	for k := range labels.Strings {
		datasets = append(datasets, Dataset{Path: fmt.Sprintf("/fields/field%d/vectors", k), DType: Float64})
	}
	for i := range datasets {
		if err = readH5Dataset(f, &datasets[i]); err != nil {
			return nil, err
		}
	}
	return append(datasets, labels), nil
}

func readH5Dataset(f *hdf5.File, ds *Dataset) (err error) {
	var (
		dset  *hdf5.Dataset
		dims  []uint
		dtype *hdf5.Datatype
	)
	if dset, err = f.OpenDataset(ds.Path); err != nil {
		return fmt.Errorf("dataset %s: %w", ds.Path, err)
	}
	defer dset.Close()
	space := dset.Space()
	defer space.Close()
	if dims, _, err = space.SimpleExtentDims(); err != nil {
		return fmt.Errorf("dataset %s: %w", ds.Path, err)
	}
	ds.Shape = make([]int, len(dims))
	for i, d := range dims {
		ds.Shape[i] = int(d)
	}
	n := ds.Len()
	if n == 0 {
		return
	}
	switch ds.DType {
	case Float64:
		ds.Float64 = make([]float64, n)
		err = dset.Read(&ds.Float64)
	case Uint64:
		ds.Uint64 = make([]uint64, n)
		err = dset.Read(&ds.Uint64)
	case ASCII:
		if dtype, err = dset.Datatype(); err != nil {
			return
		}
		ds.Width = int(dtype.Size())
		dtype.Close()
		buf := make([]byte, n*ds.Width)
		if err = dset.Read(&buf); err != nil {
			return
		}
		ds.Strings = unpackASCII(buf, n, ds.Width)
	}
	if err != nil {
		return fmt.Errorf("dataset %s: %w", ds.Path, err)
	}
	return
}

// H5Name is the mesh file name for basename, adding .h5 unless present
func H5Name(basename string) string {
	if strings.HasSuffix(basename, ".h5") {
		return basename
	}
	return basename + ".h5"
}
