// Package preprocessing は学習前の特徴量スケーリングを提供する
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// StandardScaler は各特徴量を平均0、標準偏差1に変換する
type StandardScaler struct {
	model.BaseEstimator

	withMean bool
	withStd  bool

	mean_      []float64
	scale_     []float64
	nFeatures_ int
}

// StandardScalerOption はStandardScalerの設定オプション
type StandardScalerOption func(*StandardScaler)

// WithScalerMean は平均の減算を有効/無効にする
func WithScalerMean(enabled bool) StandardScalerOption {
	return func(s *StandardScaler) {
		s.withMean = enabled
	}
}

// WithScalerStd は標準偏差による除算を有効/無効にする
func WithScalerStd(enabled bool) StandardScalerOption {
	return func(s *StandardScaler) {
		s.withStd = enabled
	}
}

// NewStandardScaler は新しいStandardScalerを作成する
func NewStandardScaler(options ...StandardScalerOption) *StandardScaler {
	s := &StandardScaler{
		withMean: true,
		withStd:  true,
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// Fit は訓練データから列ごとの平均と標準偏差を学習する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.nFeatures_ = c
	s.mean_ = make([]float64, c)
	s.scale_ = make([]float64, c)

	for j := 0; j < c; j++ {
		mean := 0.0
		if s.withMean {
			for i := 0; i < r; i++ {
				mean += X.At(i, j)
			}
			mean /= float64(r)
		}
		s.mean_[j] = mean

		scale := 1.0
		if s.withStd {
			sumSquares := 0.0
			for i := 0; i < r; i++ {
				diff := X.At(i, j) - mean
				sumSquares += diff * diff
			}
			scale = math.Sqrt(sumSquares / float64(r))
			// 定数特徴量はゼロ除算を避けてそのまま通す
			if scale < 1e-8 {
				scale = 1.0
			}
		}
		s.scale_[j] = scale
	}

	s.SetFitted()
	return nil
}

// Transform は学習済みの平均と標準偏差でデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.nFeatures_ {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.nFeatures_, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (X.At(i, j)-s.mean_[j])/s.scale_[j])
		}
	}
	return result, nil
}

// FitTransform は学習と変換を同時に実行する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.nFeatures_ {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.nFeatures_, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, X.At(i, j)*s.scale_[j]+s.mean_[j])
		}
	}
	return result, nil
}

// Mean は学習した列ごとの平均を返す
func (s *StandardScaler) Mean() []float64 {
	out := make([]float64, len(s.mean_))
	copy(out, s.mean_)
	return out
}

// MinMaxScaler は各特徴量を指定範囲（デフォルト[0,1]）に線形変換する
type MinMaxScaler struct {
	model.BaseEstimator

	rangeMin float64
	rangeMax float64

	dataMin_   []float64
	dataRange_ []float64
	nFeatures_ int
}

// MinMaxScalerOption はMinMaxScalerの設定オプション
type MinMaxScalerOption func(*MinMaxScaler)

// WithFeatureRange は変換後の範囲を設定する
func WithFeatureRange(min, max float64) MinMaxScalerOption {
	return func(m *MinMaxScaler) {
		m.rangeMin = min
		m.rangeMax = max
	}
}

// NewMinMaxScaler は新しいMinMaxScalerを作成する
func NewMinMaxScaler(options ...MinMaxScalerOption) *MinMaxScaler {
	m := &MinMaxScaler{
		rangeMin: 0,
		rangeMax: 1,
	}

	for _, opt := range options {
		opt(m)
	}

	return m
}

// Fit は訓練データから列ごとの最小値と値域を学習する
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	if m.rangeMin >= m.rangeMax {
		return errors.NewValidationError("featureRange", "min must be below max", [2]float64{m.rangeMin, m.rangeMax})
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	m.nFeatures_ = c
	m.dataMin_ = make([]float64, c)
	m.dataRange_ = make([]float64, c)

	for j := 0; j < c; j++ {
		low, high := X.At(0, j), X.At(0, j)
		for i := 1; i < r; i++ {
			v := X.At(i, j)
			if v < low {
				low = v
			}
			if v > high {
				high = v
			}
		}

		m.dataMin_[j] = low
		m.dataRange_[j] = high - low
		// 定数特徴量は範囲の下端に写す
		if m.dataRange_[j] < 1e-8 {
			m.dataRange_[j] = 1.0
		}
	}

	m.SetFitted()
	return nil
}

// Transform は学習済みの統計でデータを設定範囲にスケーリングする
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "Transform")
	}

	r, c := X.Dims()
	if c != m.nFeatures_ {
		return nil, errors.NewDimensionError("MinMaxScaler.Transform", m.nFeatures_, c, 1)
	}

	span := m.rangeMax - m.rangeMin
	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			std := (X.At(i, j) - m.dataMin_[j]) / m.dataRange_[j]
			result.Set(i, j, std*span+m.rangeMin)
		}
	}
	return result, nil
}

// FitTransform は学習と変換を同時に実行する
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform はスケーリングされたデータを元の範囲に戻す
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != m.nFeatures_ {
		return nil, errors.NewDimensionError("MinMaxScaler.InverseTransform", m.nFeatures_, c, 1)
	}

	span := m.rangeMax - m.rangeMin
	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			std := (X.At(i, j) - m.rangeMin) / span
			result.Set(i, j, std*m.dataRange_[j]+m.dataMin_[j])
		}
	}
	return result, nil
}
