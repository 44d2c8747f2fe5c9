// Package salary holds the wage arithmetic used around occupation matching:
// payroll health, affordable salary ranges and percentile placement.
package salary

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput is returned for negative amounts or out of range ratios.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientWageData is returned when fewer than two wage points are known.
	ErrInsufficientWageData = errors.New("insufficient wage data")
)

// RatioClass describes how heavy a payroll is relative to revenue.
type RatioClass string

const (
	RatioLean     RatioClass = "lean"
	RatioHealthy  RatioClass = "healthy"
	RatioElevated RatioClass = "elevated"
	RatioCritical RatioClass = "critical"
	RatioUnknown  RatioClass = "unknown"
)

// Thresholds are the upper bounds (exclusive) of the lean, healthy and
// elevated payroll classes.
type Thresholds struct {
	Lean     float64
	Healthy  float64
	Elevated float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Lean: 0.15, Healthy: 0.30, Elevated: 0.45}
}

// Classification is the result of ClassifyPayrollRatio.
type Classification struct {
	Ratio float64    `json:"ratio"`
	Class RatioClass `json:"class"`
}

// ClassifyPayrollRatio classifies payroll/revenue. Without positive revenue
// the class is unknown.
func ClassifyPayrollRatio(payroll, revenue float64, th Thresholds) Classification {
	if revenue <= 0 || payroll < 0 || math.IsNaN(payroll) || math.IsNaN(revenue) {
		return Classification{Class: RatioUnknown}
	}

	ratio := payroll / revenue
	class := RatioCritical
	switch {
	case ratio < th.Lean:
		class = RatioLean
	case ratio < th.Healthy:
		class = RatioHealthy
	case ratio < th.Elevated:
		class = RatioElevated
	}
	return Classification{Ratio: ratio, Class: class}
}

// Policy configures the affordability calculation.
type Policy struct {
	MinimumHourlyWage  float64 `mapstructure:"minimum-hourly-wage"`
	HoursPerYear       float64 `mapstructure:"hours-per-year"`
	TargetPayrollRatio float64 `mapstructure:"target-payroll-ratio"`
}

// DefaultPolicy uses the US federal minimum wage and a full-time year.
func DefaultPolicy() Policy {
	return Policy{MinimumHourlyWage: 7.25, HoursPerYear: 2080, TargetPayrollRatio: 0.30}
}

// MinimumAnnual is the yearly pay of a full-time minimum wage job.
func MinimumAnnual(hourlyMinimum, hoursPerYear float64) float64 {
	return hourlyMinimum * hoursPerYear
}

// Input describes the business a new hire is being budgeted for.
type Input struct {
	AnnualRevenue  float64
	CurrentPayroll float64
}

// Range is an affordable annual salary range.
type Range struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Headroom float64 `json:"headroom"`
	// Floored is set when either bound was raised to the minimum wage.
	Floored bool `json:"floored"`
}

const minShareOfHeadroom = 0.8

// Affordable returns the salary range that keeps payroll within the policy
// target. Neither bound goes below the minimum-wage floor.
func Affordable(in Input, p Policy) (Range, error) {
	if in.AnnualRevenue < 0 || in.CurrentPayroll < 0 {
		return Range{}, fmt.Errorf("revenue and payroll must not be negative: %w", ErrInvalidInput)
	}
	if p.TargetPayrollRatio <= 0 || p.TargetPayrollRatio > 1 {
		return Range{}, fmt.Errorf("target payroll ratio %v outside (0, 1]: %w", p.TargetPayrollRatio, ErrInvalidInput)
	}

	floor := MinimumAnnual(p.MinimumHourlyWage, p.HoursPerYear)
	headroom := in.AnnualRevenue*p.TargetPayrollRatio - in.CurrentPayroll

	r := Range{
		Min:      headroom * minShareOfHeadroom,
		Max:      headroom,
		Headroom: headroom,
	}
	if r.Min < floor {
		r.Min = floor
		r.Floored = true
	}
	if r.Max < floor {
		r.Max = floor
		r.Floored = true
	}
	return r, nil
}
