// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package config reads settings from the environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/alvinbaena/crack-time/internal/util"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is what the CLI needs to reach an estimation service.
type Config struct {
	URL       string        `mapstructure:"CRACK_TIME_URL" validate:"required,url"`
	Timeout   time.Duration `mapstructure:"CRACK_TIME_TIMEOUT" validate:"gt=0"`
	Algorithm string        `mapstructure:"CRACK_TIME_ALGORITHM" validate:"required"`
	Tier      string        `mapstructure:"CRACK_TIME_TIER" validate:"required"`
	Strict    bool          `mapstructure:"CRACK_TIME_STRICT"`
}

// ServerConfig is what the serve command needs to run the development service.
type ServerConfig struct {
	Port           uint16   `mapstructure:"CRACK_TIME_PORT" validate:"required"`
	SelfTLS        bool     `mapstructure:"CRACK_TIME_SELF_TLS"`
	TLSCert        string   `mapstructure:"CRACK_TIME_TLS_CERT" validate:"required_with=TLSKey,excluded_with=SelfTLS"`
	TLSKey         string   `mapstructure:"CRACK_TIME_TLS_KEY" validate:"required_with=TLSCert,excluded_with=SelfTLS"`
	CatalogFile    string   `mapstructure:"CRACK_TIME_CATALOG_FILE" validate:"omitempty,file"`
	Workers        int      `mapstructure:"CRACK_TIME_WORKERS" validate:"min=0"`
	Origins        []string `mapstructure:"CRACK_TIME_CORS_ORIGINS"`
	MaxConnections int      `mapstructure:"CRACK_TIME_MAX_CONNECTIONS" validate:"min=0"`
}

var clientDefaults = map[string]any{
	"CRACK_TIME_URL":       "http://localhost:8000/api",
	"CRACK_TIME_TIMEOUT":   "30s",
	"CRACK_TIME_ALGORITHM": "bcrypt_cost12",
	"CRACK_TIME_TIER":      "consumer",
	"CRACK_TIME_STRICT":    false,
}

var serverDefaults = map[string]any{
	"CRACK_TIME_PORT":            8000,
	"CRACK_TIME_WORKERS":         0,
	"CRACK_TIME_CORS_ORIGINS":    []string{"http://localhost:5173"},
	"CRACK_TIME_MAX_CONNECTIONS": 256,
}

func bindEnvs(v *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		f := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch f.Kind() {
		case reflect.Struct:
			bindEnvs(v, f.Interface(), append(parts, tv)...)
		default:
			_ = v.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func msgForTag(cfg any, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "url":
		return "This field must be an absolute URL"
	case "gt":
		return fmt.Sprintf("This field must be greater than %s", fe.Param())
	case "min":
		return fmt.Sprintf("This field must be at least %s", fe.Param())
	case "file":
		return "This field must point to an existing file"
	case "required_with":
		return fmt.Sprintf("This field requires the presence of %s", envName(cfg, fe.Param()))
	case "excluded_with":
		return fmt.Sprintf("This field cannot be used together with %s", envName(cfg, fe.Param()))
	}
	return fe.Error() // default error
}

// envName is the variable a struct field is read from.
func envName(cfg any, field string) string {
	if f, ok := reflect.TypeOf(cfg).FieldByName(field); ok {
		if tv, ok := f.Tag.Lookup("mapstructure"); ok {
			return tv
		}
	}
	return util.ToScreamingSnakeCase(field)
}

// load fills cfg, a pointer to a config struct, from the environment and validates it. Values
// already set in the process environment win over the .env file.
func load(cfg any, defaults map[string]any) error {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	// This is to not require a config file to unmarshal Envs in a struct
	// https://github.com/spf13/viper/issues/188#issuecomment-399884438
	bindEnvs(v, reflect.ValueOf(cfg).Elem().Interface())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("error reading configuration from environment: %w", err)
	}

	return validateStruct(reflect.ValueOf(cfg).Elem().Interface())
}

func Load() (config Config, err error) {
	err = load(&config, clientDefaults)
	return
}

func LoadServer() (config ServerConfig, err error) {
	err = load(&config, serverDefaults)
	return
}

// Validate checks a config after flags have been applied over it.
func (c Config) Validate() error {
	return validateStruct(c)
}

func (c ServerConfig) Validate() error {
	return validateStruct(c)
}

// validateStruct reports every failing field by the variable it is read from.
func validateStruct(cfg any) error {
	err := validator.New().Struct(cfg)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("%s: %s", envName(cfg, fe.StructField()), msgForTag(cfg, fe)))
		}
		return errors.New(strings.Join(msgs, ". "))
	}
	return err
}
