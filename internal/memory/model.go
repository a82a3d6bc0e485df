// Package memory implements the memory-strength model: exponential decay
// over elapsed time, sigmoid recall prediction and the post-answer update
// rule. Everything here is a pure function of its inputs; persistence and
// scheduling live elsewhere.
package memory

import (
	"math"
	"time"
)

// Params are the tunable constants of the update rule.
type Params struct {
	SigmoidBias          float64 `yaml:"sigmoid_bias"`           // calibration shift inside the recall sigmoid
	LearningRate         float64 `yaml:"learning_rate"`          // boost scale on a correct answer
	WrongDecayFactor     float64 `yaml:"wrong_decay_factor"`     // multiplier applied on an incorrect answer
	IdealResponseSeconds float64 `yaml:"ideal_response_seconds"` // centre of the time-penalty curve
	SlowResponseSeconds  float64 `yaml:"slow_response_seconds"`  // threshold for the time_penalty_applied flag
}

// DefaultParams returns the calibrated defaults.
func DefaultParams() Params {
	return Params{
		SigmoidBias:          -2.0,
		LearningRate:         0.3,
		WrongDecayFactor:     0.8,
		IdealResponseSeconds: 5,
		SlowResponseSeconds:  15,
	}
}

// hoursPerDay converts elapsed wall time to the per-day unit of the
// forgetting rate.
const hoursPerDay = 24.0

// Decay returns the current strength of a skill practiced last at
// lastPractice with base strength base and forgetting rate ratePerDay.
// Locked strengths pass through untouched, as does a never-practiced skill.
// Negative elapsed time (clock skew) is treated as zero.
func Decay(base float64, lastPractice *time.Time, ratePerDay float64, now time.Time) float64 {
	if base < 0 {
		return base
	}
	if lastPractice == nil {
		return base
	}
	elapsedDays := now.Sub(*lastPractice).Hours() / hoursPerDay
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	return clamp01(base * math.Exp(-ratePerDay*elapsedDays))
}

// PredictRecall maps a decayed strength to the probability of a correct
// answer.
func PredictRecall(strength float64, p Params) float64 {
	return sigmoid(strength + p.SigmoidBias)
}

// TimePenalty scales the learning boost by answer speed. It is 1.0 at or
// below the ideal response time and floors at 0.5 for very slow answers.
func TimePenalty(responseSeconds float64, p Params) float64 {
	penalty := math.Exp(-(responseSeconds - p.IdealResponseSeconds) / 10)
	if penalty > 1.0 {
		return 1.0
	}
	if penalty < 0.5 {
		return 0.5
	}
	return penalty
}

// SlowResponse reports whether the answer took long enough to flag the
// attempt's time_penalty_applied field.
func SlowResponse(responseSeconds float64, p Params) bool {
	return responseSeconds > p.SlowResponseSeconds
}

// Update applies the post-answer rule to a decayed strength and returns the
// new strength, clamped to [0, 1].
func Update(decayed float64, correct bool, responseSeconds float64, p Params) float64 {
	if !correct {
		return clamp01(decayed * p.WrongDecayFactor)
	}
	rate := p.LearningRate * (1 - decayed)
	return clamp01(decayed + rate*TimePenalty(responseSeconds, p))
}

// Boost nudges a strength toward 1 at the given cascade rate. Used for
// prerequisite and topical-neighbour propagation on a correct answer.
func Boost(strength, rate float64) float64 {
	return clamp01(strength + rate*(1-strength))
}

// Dampen pulls a strength toward 0 at the given cascade rate. Used for the
// topical-neighbour cascade on an incorrect answer.
func Dampen(strength, rate float64) float64 {
	return clamp01(strength * (1 - rate))
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
