package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/invokit/invoke"
	"github.com/kbukum/invokit/logger"
	"github.com/kbukum/invokit/util"
)

var validate = validator.New()

// Defaults is the file-configurable portion of invocation options. A
// project keeps one invokit.yml at its root; every Runner built from it
// starts from these values.
type Defaults struct {
	// Cwd is the default working directory for launched commands.
	Cwd string `yaml:"cwd" mapstructure:"cwd"`
	// Env is merged over the parent environment for every invocation.
	Env map[string]string `yaml:"env" mapstructure:"env"`
	// Shell runs commands through /bin/sh -c with placeholder quoting.
	Shell *bool `yaml:"shell" mapstructure:"shell"`
	// Reject controls whether a failed async invocation rejects its Wait.
	Reject *bool `yaml:"reject" mapstructure:"reject"`
	// Exit controls whether a failed sync invocation terminates the parent.
	Exit *bool `yaml:"exit" mapstructure:"exit"`
	// TrimEnd controls trailing-whitespace trimming of sync stdout.
	TrimEnd *bool `yaml:"trim_end" mapstructure:"trim_end"`
	// Encoding selects text or bytes for sync captured output.
	Encoding string `yaml:"encoding" mapstructure:"encoding" validate:"omitempty,oneof=text bytes"`
	// Logging configures the package logger.
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills unset fields with their stated defaults.
func (d *Defaults) ApplyDefaults() {
	if d.Encoding == "" {
		d.Encoding = invoke.EncodingText
	}
	d.Logging.ApplyDefaults()
}

// Validate checks field constraints and the nested logging configuration.
func (d *Defaults) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid invocation defaults: %w", err)
	}
	if err := d.Logging.Validate(); err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}
	return nil
}

// Options converts the loaded defaults into invocation options, suitable
// for invoke.NewRunner or as the defaults side of invoke.Merge.
func (d *Defaults) Options() *invoke.Options {
	opts := &invoke.Options{
		Cwd:      d.Cwd,
		Env:      d.Env,
		Encoding: d.Encoding,
	}
	if d.Shell != nil {
		opts.Shell = util.Ptr(*d.Shell)
	}
	if d.Reject != nil {
		opts.Reject = util.Ptr(*d.Reject)
	}
	if d.Exit != nil {
		opts.Exit = util.Ptr(*d.Exit)
	}
	if d.TrimEnd != nil {
		opts.TrimEnd = util.Ptr(*d.TrimEnd)
	}
	return opts
}
