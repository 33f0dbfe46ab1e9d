package main

import (
	"errors"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// PowerLaw is y = Prefactor * x^Exponent + Offset.
type PowerLaw struct {
	Exponent  float64
	Prefactor float64
	Offset    float64
	RSquared  float64 // Of the log-log regression
}

// Eval returns the model value at x.
func (p PowerLaw) Eval(x float64) float64 {
	return p.Prefactor*math.Pow(x, p.Exponent) + p.Offset
}

var errTooFewPoints = errors.New("need at least two positive points")

// fitPowerLaw fits log(y) = log(a) + k*log(x) by least squares.
// Non-positive points are skipped.
func fitPowerLaw(xs, ys []float64) (PowerLaw, error) {
	var lx, ly []float64
	for i := range xs {
		if xs[i] <= 0 || ys[i] <= 0 {
			continue
		}
		lx = append(lx, math.Log(xs[i]))
		ly = append(ly, math.Log(ys[i]))
	}
	if len(lx) < 2 {
		return PowerLaw{}, errTooFewPoints
	}

	alpha, beta := stat.LinearRegression(lx, ly, nil, false)
	return PowerLaw{
		Exponent:  beta,
		Prefactor: math.Exp(alpha),
		RSquared:  stat.RSquared(lx, ly, nil, alpha, beta),
	}, nil
}

// refineFit adds a constant offset to a log-log fit by minimising the
// relative squared error with Nelder-Mead. Small piles settle in a handful
// of steps, which bends the low end of the log-log line.
func refineFit(xs, ys []float64, init PowerLaw) (PowerLaw, error) {
	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			m := PowerLaw{Prefactor: p[0], Exponent: p[1], Offset: p[2]}
			var sum float64
			for i := range xs {
				if ys[i] <= 0 {
					continue
				}
				r := (m.Eval(xs[i]) - ys[i]) / ys[i]
				sum += r * r
			}
			return sum
		},
	}

	settings := &optimize.Settings{FuncEvaluations: 5000}
	result, err := optimize.Minimize(problem, []float64{init.Prefactor, init.Exponent, 0}, settings, &optimize.NelderMead{})
	if result == nil {
		return init, err
	}
	if err != nil {
		// Termination limits still leave a usable best point.
		slog.Debug("refinement ended", "status", result.Status, "error", err)
	}

	return PowerLaw{
		Prefactor: result.X[0],
		Exponent:  result.X[1],
		Offset:    result.X[2],
		RSquared:  init.RSquared,
	}, nil
}
