/*
 * Copyright 2024-2025 by the Warden authors
 * https://github.com/kradscan/warden
 * All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads scanner configuration from the environment and
// an optional YAML file via viper, the way the teacher wires its own
// layered config.
package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full set of tunables this scanner accepts. None is
// required: an empty WebhookURL disables webhook delivery, and every
// other field has a sane default.
type Config struct {
	WebhookURL string `mapstructure:"webhook_url"`

	OverlayMinPercentPrimary float64 `mapstructure:"overlay_min_percent_primary"`
	OverlayMinPercentVirtual float64 `mapstructure:"overlay_min_percent_virtual"`
	OverlayRequiredStyle     uint32  `mapstructure:"overlay_required_style"`
	OverlayRequiredStyleEx   uint32  `mapstructure:"overlay_required_style_ex"`

	ObjectTypeCacheTTL time.Duration `mapstructure:"object_type_cache_ttl"`

	YaraRulePath string `mapstructure:"yara_rule_path"`

	ElasticURL   string `mapstructure:"elastic_url"`
	ElasticIndex string `mapstructure:"elastic_index"`

	AMQPDSN        string `mapstructure:"amqp_dsn"`
	AMQPExchange   string `mapstructure:"amqp_exchange"`
	AMQPRoutingKey string `mapstructure:"amqp_routing_key"`

	SMTPHost     string   `mapstructure:"smtp_host"`
	SMTPPort     int      `mapstructure:"smtp_port"`
	SMTPUsername string   `mapstructure:"smtp_username"`
	SMTPPassword string   `mapstructure:"smtp_password"`
	SMTPFrom     string   `mapstructure:"smtp_from"`
	SMTPTo       []string `mapstructure:"smtp_to"`

	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`
}

// defaults mirrors spec.md's "absence of WEBHOOK_URL disables webhook
// delivery" choice: nothing here substitutes a placeholder that would
// fail later.
func defaults() Config {
	return Config{
		OverlayMinPercentPrimary: 60,
		OverlayMinPercentVirtual: 40,
		ObjectTypeCacheTTL:       10 * time.Minute,
		SMTPPort:                 587,
		LogFile:                  "warden.log",
		LogLevel:                 "info",
	}
}

// Load reads WEBHOOK_URL (and any other WARDEN_* environment
// variable) plus an optional YAML file at configPath into a typed
// Config. configPath may be empty, in which case only the environment
// and defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	cfg := defaults()

	v.SetEnvPrefix("WARDEN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// WEBHOOK_URL (unprefixed) is the one spec.md-mandated variable;
	// bind it explicitly alongside the WARDEN_-prefixed convention.
	v.BindEnv("webhook_url", "WEBHOOK_URL", "WARDEN_WEBHOOK_URL")
	// Unmarshal only walks keys viper already knows, and AutomaticEnv
	// registers none, so bind every other field to its WARDEN_ name.
	t := reflect.TypeOf(cfg)
	for i := 0; i < t.NumField(); i++ {
		if key := t.Field(i).Tag.Get("mapstructure"); key != "webhook_url" {
			v.BindEnv(key)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
