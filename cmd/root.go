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
	"errors"
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/notargets/tecmesh/InputParameters"
)

var (
	cfgFile string
	logger  = zap.NewNop()
	params  *InputParameters.Parameters
	prof    interface{ Stop() }
	envKeys = strings.NewReplacer("-", "_")
)

var rootCmd = &cobra.Command{
	Use:   "tecmesh",
	Short: "Tecplot finite element micromagnetic output conversion and analysis",
	Long: `
Reads tetrahedral Tecplot FE files written by micromagnetic simulations, checks
the mesh and its magnetization fields, computes the mesh volume and per field
net magnetic moments, and writes the result as an array container.

tecmesh convert run.tec run
tecmesh quants run.tec run.csv`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if err = initConfig(); err != nil {
			return
		}
		if params, err = InputParameters.NewParameters(viper.GetViper()); err != nil {
			return
		}
		if logger, err = newLogger(params.Verbose); err != nil {
			return
		}
		if params.Verbose {
			params.Print(cmd.ErrOrStderr())
		}
		if viper.ConfigFileUsed() != "" {
			logger.Debug("using config file", zap.String("file", viper.ConfigFileUsed()))
		}
		switch params.Profile {
		case "cpu":
			prof = profile.Start(profile.CPUProfile, profile.ProfilePath(params.ProfileDir), profile.Quiet)
		case "mem":
			prof = profile.Start(profile.MemProfile, profile.ProfilePath(params.ProfileDir), profile.Quiet)
		}
		return
	},
}

// Execute adds all child commands to the root command and runs it
func Execute() {
	err := rootCmd.Execute()
	finish()
	if err != nil {
		os.Exit(1)
	}
}

func finish() {
	if prof != nil {
		prof.Stop()
		prof = nil
	}
	_ = logger.Sync()
}

func init() {
	InputParameters.SetDefaults(viper.GetViper())
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tecmesh.yaml)")
	pf.BoolP(InputParameters.KeyVerbose, "v", false, "debug logging")
	pf.IntP(InputParameters.KeyWorkers, "w", 0, "files processed in parallel, 0 means one per CPU")
	pf.Int(InputParameters.KeyLabelWidth, 64, "fixed width of the stored field labels")
	pf.String(InputParameters.KeyProfile, "", "write a cpu or mem profile")
	pf.String(InputParameters.KeyProfileDir, ".", "directory for profile output")
	for _, key := range []string{
		InputParameters.KeyVerbose, InputParameters.KeyWorkers, InputParameters.KeyLabelWidth,
		InputParameters.KeyProfile, InputParameters.KeyProfileDir,
	} {
		if err := viper.BindPFlag(key, pf.Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in the config file and TECMESH_* environment variables
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".tecmesh")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("TECMESH")
	viper.SetEnvKeyReplacer(envKeys)
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("unable to read config: %w", err)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
