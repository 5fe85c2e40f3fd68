// Package align computes the affine registration between two studies from
// user-clicked landmark pairs, so a prior study's viewport can be brought
// into the current study's frame for comparison.
package align

import (
	"fmt"
	"math"
	"math/rand"

	"radview/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// Result is a computed registration.
type Result struct {
	Transform geometry.AffineTransform
	// Inliers holds indices of the landmark pairs the transform was fitted
	// on after outlier rejection.
	Inliers []int
	// MeanError is the mean residual distance over the inliers, in pixels.
	MeanError float64
}

// Register computes the affine transform mapping src landmarks onto dst.
// Three pairs are the minimum; with four or more, RANSAC rejects outlier
// clicks before the final least-squares fit.
func Register(src, dst []geometry.Point2D) (*Result, error) {
	if len(src) != len(dst) {
		return nil, fmt.Errorf("landmark count mismatch: %d vs %d", len(src), len(dst))
	}
	if len(src) < 3 {
		return nil, fmt.Errorf("need at least 3 landmark pairs, got %d", len(src))
	}

	if len(src) == 3 {
		t, err := solveAffine(src, dst)
		if err != nil {
			return nil, err
		}
		return &Result{
			Transform: t,
			Inliers:   []int{0, 1, 2},
			MeanError: meanError(src, dst, t, []int{0, 1, 2}),
		}, nil
	}

	t, inliers, err := ransacAffine(src, dst, 2000, 3.0)
	if err != nil {
		return nil, err
	}
	return &Result{
		Transform: t,
		Inliers:   inliers,
		MeanError: meanError(src, dst, t, inliers),
	}, nil
}

// ransacAffine samples minimal 3-point fits, keeps the largest inlier set,
// and refits on all inliers.
func ransacAffine(src, dst []geometry.Point2D, iterations int, threshold float64) (geometry.AffineTransform, []int, error) {
	n := len(src)
	var bestInliers []int

	for iter := 0; iter < iterations; iter++ {
		indices := rand.Perm(n)[:3]

		sample := make([]geometry.Point2D, 3)
		target := make([]geometry.Point2D, 3)
		for i, idx := range indices {
			sample[i] = src[idx]
			target[i] = dst[idx]
		}

		t, err := solveAffine(sample, target)
		if err != nil {
			continue
		}

		var inliers []int
		for i := range src {
			if t.Apply(src[i]).Distance(dst[i]) < threshold {
				inliers = append(inliers, i)
			}
		}
		if len(inliers) > len(bestInliers) {
			bestInliers = inliers
		}
	}

	if len(bestInliers) < 3 {
		return geometry.AffineTransform{}, nil, fmt.Errorf("registration failed: landmarks are inconsistent")
	}

	inlierSrc := make([]geometry.Point2D, len(bestInliers))
	inlierDst := make([]geometry.Point2D, len(bestInliers))
	for i, idx := range bestInliers {
		inlierSrc[i] = src[idx]
		inlierDst[i] = dst[idx]
	}

	t, err := solveAffine(inlierSrc, inlierDst)
	if err != nil {
		return geometry.AffineTransform{}, nil, err
	}
	return t, bestInliers, nil
}

// solveAffine fits [x', y'] = [a b tx; c d ty] * [x, y, 1] to N ≥ 3 point
// pairs by QR least squares.
func solveAffine(src, dst []geometry.Point2D) (geometry.AffineTransform, error) {
	n := len(src)
	if n < 3 {
		return geometry.AffineTransform{}, fmt.Errorf("need at least 3 points")
	}

	A := mat.NewDense(n*2, 6, nil)
	B := mat.NewVecDense(n*2, nil)

	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		B.SetVec(i*2, xp)

		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		B.SetVec(i*2+1, yp)
	}

	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, B); err != nil {
		return geometry.AffineTransform{}, fmt.Errorf("degenerate landmark configuration: %w", err)
	}

	return geometry.AffineTransform{
		A:  params.AtVec(0),
		B:  params.AtVec(1),
		TX: params.AtVec(2),
		C:  params.AtVec(3),
		D:  params.AtVec(4),
		TY: params.AtVec(5),
	}, nil
}

func meanError(src, dst []geometry.Point2D, t geometry.AffineTransform, indices []int) float64 {
	if len(indices) == 0 {
		return math.Inf(1)
	}
	var total float64
	for _, i := range indices {
		total += t.Apply(src[i]).Distance(dst[i])
	}
	return total / float64(len(indices))
}
