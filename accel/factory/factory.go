/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package factory builds accelerator providers from declarative
// configuration.
package factory

import (
	"github.com/hwcrypto/mpiaccel/accel"
	"github.com/hwcrypto/mpiaccel/common/flogging"
	"github.com/hwcrypto/mpiaccel/common/metrics/disabled"
	"github.com/hwcrypto/mpiaccel/common/metrics/prometheus"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var logger = flogging.MustGetLogger("accel.factory")

// Metrics provider names accepted in configuration.
const (
	MetricsDisabled   = "disabled"
	MetricsPrometheus = "prometheus"
)

// FactoryOpts holds configuration information used to initialize an
// accelerator provider.
type FactoryOpts struct {
	// Metrics selects the metrics provider: "disabled" (default) or
	// "prometheus".
	Metrics string `mapstructure:"metrics" json:"metrics,omitempty" yaml:"Metrics"`

	Accel accel.Opts `mapstructure:"accel" json:"accel,omitempty" yaml:"Accel"`
}

// GetDefaultOpts offers a default implementation for Opts. It returns a new
// instance every time.
func GetDefaultOpts() *FactoryOpts {
	return &FactoryOpts{
		Metrics: MetricsDisabled,
	}
}

// New constructs an accelerator provider from config. A nil config is
// equivalent to GetDefaultOpts().
func New(config *FactoryOpts, options ...accel.Option) (*accel.Provider, error) {
	if config == nil {
		config = GetDefaultOpts()
	}

	switch config.Metrics {
	case MetricsDisabled, "":
		options = append(options, accel.WithMetricsProvider(&disabled.Provider{}))
	case MetricsPrometheus:
		options = append(options, accel.WithMetricsProvider(&prometheus.Provider{}))
	default:
		return nil, errors.Errorf("unknown metrics provider [%s]", config.Metrics)
	}

	logger.Debugf("constructing accelerator provider, metrics [%s]", config.Metrics)
	return accel.New(config.Accel, options...)
}

// NewFromViper constructs an accelerator provider from the "mpiaccel" key of
// the provided viper instance.
func NewFromViper(v *viper.Viper, options ...accel.Option) (*accel.Provider, error) {
	config, err := UnmarshalOpts(v)
	if err != nil {
		return nil, err
	}
	return New(config, options...)
}

// UnmarshalOpts extracts FactoryOpts from the "mpiaccel" key of the provided
// viper instance.
func UnmarshalOpts(v *viper.Viper) (*FactoryOpts, error) {
	opts := GetDefaultOpts()
	raw := v.Get("mpiaccel")
	if raw == nil {
		return opts, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           opts,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed initializing config decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, "failed decoding mpiaccel config")
	}
	return opts, nil
}
