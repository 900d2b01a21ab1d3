/*
Copyright 2026 The llm-d Authors

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

// The api server's configuration definitions.
package common

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/llm-d-incubation/heart-predictor/internal/artifact_store/s3"
	utls "github.com/llm-d-incubation/heart-predictor/internal/util/tls"
)

// DefaultModelLocation is where the trained pipeline is looked up, relative
// to the working directory.
var DefaultModelLocation = filepath.Join("trained_model", "heartattack_prediction_pipeline.json")

type Config struct {
	ConfigFile string `json:"-" yaml:"-"`

	Addr             string        `json:"addr" yaml:"addr"`
	ModelLocation    string        `json:"model_location" yaml:"model_location"` // file path or s3://bucket/key
	ModelLoadTimeout time.Duration `json:"model_load_timeout" yaml:"model_load_timeout"`
	ReadTimeout      time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout     time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout      time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout  time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodyBytes     int64         `json:"max_body_bytes" yaml:"max_body_bytes"`

	S3  s3.Config          `json:"s3" yaml:"s3"`
	TLS utls.Certificates `json:"tls" yaml:"tls"`
}

// NewConfig returns a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Addr:             "0.0.0.0:8080",
		ModelLocation:    DefaultModelLocation,
		ModelLoadTimeout: 30 * time.Second,
		ReadTimeout:      10 * time.Second,
		WriteTimeout:     10 * time.Second,
		IdleTimeout:      60 * time.Second,
		ShutdownTimeout:  15 * time.Second,
		MaxBodyBytes:     1 << 20,
	}
}

func (c *Config) AddFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "Path to a YAML configuration file. Flags override file values.")
	fs.StringVar(&c.Addr, "addr", c.Addr, "Address the api server listens on.")
	fs.StringVar(&c.ModelLocation, "model", c.ModelLocation, "Pipeline artifact: a file path or an s3://bucket/key URI.")
	fs.DurationVar(&c.ModelLoadTimeout, "model-load-timeout", c.ModelLoadTimeout, "Time limit for loading the pipeline artifact.")
	fs.DurationVar(&c.ReadTimeout, "read-timeout", c.ReadTimeout, "HTTP server read timeout.")
	fs.DurationVar(&c.WriteTimeout, "write-timeout", c.WriteTimeout, "HTTP server write timeout.")
	fs.DurationVar(&c.IdleTimeout, "idle-timeout", c.IdleTimeout, "HTTP server idle connection timeout.")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "Grace period for in-flight requests on shutdown.")
	fs.Int64Var(&c.MaxBodyBytes, "max-body-bytes", c.MaxBodyBytes, "Maximum accepted request body size.")

	fs.StringVar(&c.S3.Region, "s3-region", c.S3.Region, "AWS region of the artifact bucket.")
	fs.StringVar(&c.S3.Endpoint, "s3-endpoint", c.S3.Endpoint, "Custom S3 endpoint, e.g. for MinIO.")
	fs.BoolVar(&c.S3.UsePathStyle, "s3-path-style", c.S3.UsePathStyle, "Use path-style S3 addressing.")

	fs.StringVar(&c.TLS.Dir, "tls-dir", c.TLS.Dir, "Directory holding the TLS files.")
	fs.StringVar(&c.TLS.CertFile, "tls-cert-file", c.TLS.CertFile, "Server certificate file. Enables TLS when set.")
	fs.StringVar(&c.TLS.KeyFile, "tls-key-file", c.TLS.KeyFile, "Server private key file.")
	fs.StringVar(&c.TLS.CaCertFile, "tls-ca-cert-file", c.TLS.CaCertFile, "CA file used to verify client certificates.")
}

// Load parses args into the config. When a config file is given it is read
// first and the flags are applied again on top of it.
func (c *Config) Load(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.ConfigFile == "" {
		return nil
	}
	if err := c.LoadFromYAML(c.ConfigFile); err != nil {
		return fmt.Errorf("failed to load config file %q: %w", c.ConfigFile, err)
	}
	return fs.Parse(args)
}

// LoadFromYAML loads the configuration from a YAML file.
func (c *Config) LoadFromYAML(filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if c.ModelLocation == "" {
		errs = append(errs, errors.New("model location is empty"))
	} else if c.IsS3Model() {
		if _, _, err := s3.ParseURI(c.ModelLocation); err != nil {
			errs = append(errs, err)
		}
	}
	if c.ModelLoadTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 || c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("max body bytes must be positive, got %d", c.MaxBodyBytes))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("tls cert file and key file must be set together"))
	}
	if c.TLS.CaCertFile != "" && c.TLS.CertFile == "" {
		errs = append(errs, errors.New("tls ca cert file requires a server certificate"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsS3Model() bool {
	return strings.HasPrefix(c.ModelLocation, s3.URIScheme)
}

func (c *Config) TLSEnabled() bool {
	return c.TLS.CertFile != ""
}
