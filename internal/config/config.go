// Package config holds the engine's tunable constants and runtime settings.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"dashtutor/internal/learner"
	"dashtutor/internal/memory"
)

// Tuning collects the scheduling and cascade constants. Defaults match the
// calibrated production values; a config file may override any of them.
type Tuning struct {
	RecallThreshold    float64 `yaml:"recall_threshold"`     // minimum strength to not need practice
	MasteryThreshold   float64 `yaml:"mastery_threshold"`    // required at every skill for grade unlock
	PrereqBoost        float64 `yaml:"prereq_boost"`         // cascade rate to prerequisites on correct
	CascadeSameConcept float64 `yaml:"cascade_same_concept"` // sibling exercises
	CascadeSameTopic   float64 `yaml:"cascade_same_topic"`   // same topic+concept, different subconcept
	CascadeSameGrade   float64 `yaml:"cascade_same_grade"`   // same topic, different concept
	CascadeLowerGrade  float64 `yaml:"cascade_lower_grade"`  // gap repair below the primary's grade
	HistoryCap         int     `yaml:"history_cap"`          // question_history window
	MaxTimesShown      int     `yaml:"max_times_shown"`      // per-question exposure cap
	ColdStartMastered  float64 `yaml:"cold_start_mastered"`  // initial strength below the learner's grade

	Memory memory.Params `yaml:"memory"`
}

// DefaultTuning returns the production constants.
func DefaultTuning() Tuning {
	return Tuning{
		RecallThreshold:    0.7,
		MasteryThreshold:   0.8,
		PrereqBoost:        0.05,
		CascadeSameConcept: 0.03,
		CascadeSameTopic:   0.02,
		CascadeSameGrade:   0.01,
		CascadeLowerGrade:  0.03,
		HistoryCap:         1000,
		MaxTimesShown:      100,
		ColdStartMastered:  learner.ColdStartMastered,
		Memory:             memory.DefaultParams(),
	}
}

// MongoConfig locates the document store.
type MongoConfig struct {
	URI      string        `yaml:"uri"`
	Database string        `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"` // per-call timeout for store operations
}

// HTTPConfig configures the REST facade.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the full runtime configuration.
type Config struct {
	Mongo  MongoConfig `yaml:"mongo"`
	HTTP   HTTPConfig  `yaml:"http"`
	Tuning Tuning      `yaml:"tuning"`
}

// DefaultConfig returns sensible defaults for local development.
func DefaultConfig() Config {
	return Config{
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "dashtutor",
			Timeout:  5 * time.Second,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Tuning: DefaultTuning(),
	}
}

// Load reads configuration from path, layered over DefaultConfig. An empty
// path skips the file. The DASHTUTOR_MONGO_URI environment variable, when
// set, overrides the store URI last.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if uri := os.Getenv("DASHTUTOR_MONGO_URI"); uri != "" {
		cfg.Mongo.URI = uri
	}
	if err := cfg.Tuning.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (t Tuning) validate() error {
	if t.RecallThreshold <= 0 || t.RecallThreshold > 1 {
		return fmt.Errorf("recall_threshold must be in (0, 1], got %v", t.RecallThreshold)
	}
	if t.MasteryThreshold < t.RecallThreshold || t.MasteryThreshold > 1 {
		return fmt.Errorf("mastery_threshold must be in [recall_threshold, 1], got %v", t.MasteryThreshold)
	}
	if t.HistoryCap <= 0 {
		return fmt.Errorf("history_cap must be > 0, got %d", t.HistoryCap)
	}
	if t.MaxTimesShown <= 0 {
		return fmt.Errorf("max_times_shown must be > 0, got %d", t.MaxTimesShown)
	}
	if t.ColdStartMastered < 0 || t.ColdStartMastered > 1 {
		return fmt.Errorf("cold_start_mastered must be in [0, 1], got %v", t.ColdStartMastered)
	}
	return nil
}
