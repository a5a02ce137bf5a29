package InputParameters

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/viper"
)

// Configuration keys, shared by flags, the config file and TECMESH_* env vars
const (
	KeyVerbose    = "verbose"
	KeyWorkers    = "workers"
	KeyLabelWidth = "label-width"
	KeyProfile    = "profile"
	KeyProfileDir = "profile-dir"
)

// Parameters for a conversion run
type Parameters struct {
	Verbose    bool
	Workers    int    // Parallel file conversions, 0 means one per CPU
	LabelWidth int    // Fixed width of /fields/labels
	Profile    string // "", "cpu" or "mem"
	ProfileDir string
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyWorkers, 0)
	v.SetDefault(KeyLabelWidth, 64)
	v.SetDefault(KeyProfile, "")
	v.SetDefault(KeyProfileDir, ".")
}

// NewParameters reads and validates the parameters held by v
func NewParameters(v *viper.Viper) (ip *Parameters, err error) {
	ip = &Parameters{
		Verbose:    v.GetBool(KeyVerbose),
		Workers:    v.GetInt(KeyWorkers),
		LabelWidth: v.GetInt(KeyLabelWidth),
		Profile:    v.GetString(KeyProfile),
		ProfileDir: v.GetString(KeyProfileDir),
	}
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	return
}

func (ip *Parameters) Validate() error {
	if ip.Workers < 0 {
		return fmt.Errorf("%s must be >= 0, have %d", KeyWorkers, ip.Workers)
	}
	if ip.LabelWidth < 1 || ip.LabelWidth > 1024 {
		return fmt.Errorf("%s must be in [1,1024], have %d", KeyLabelWidth, ip.LabelWidth)
	}
	switch ip.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("%s must be cpu or mem, have %q", KeyProfile, ip.Profile)
	}
	return nil
}

// NumWorkers resolves Workers == 0 to the CPU count
func (ip *Parameters) NumWorkers() int {
	if ip.Workers == 0 {
		return runtime.NumCPU()
	}
	return ip.Workers
}

func (ip *Parameters) Print(w io.Writer) {
	fmt.Fprintf(w, "[%v]\t\t= Verbose\n", ip.Verbose)
	fmt.Fprintf(w, "[%d]\t\t= Workers\n", ip.Workers)
	fmt.Fprintf(w, "[%d]\t\t= Label Width\n", ip.LabelWidth)
	fmt.Fprintf(w, "[%s]\t\t= Profile\n", ip.Profile)
	fmt.Fprintf(w, "[%s]\t\t= Profile Dir\n", ip.ProfileDir)
}
