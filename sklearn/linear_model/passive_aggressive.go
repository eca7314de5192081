package linear_model

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// PassiveAggressiveClassifier は受動的攻撃的分類モデル
// scikit-learnのPassiveAggressiveClassifierと互換性を持つ
type PassiveAggressiveClassifier struct {
	model.BaseEstimator

	// ハイパーパラメータ
	C            float64 // 正則化パラメータ
	fitIntercept bool    // 切片を学習するか
	maxIter      int     // 最大イテレーション数
	loss         string  // 損失関数: "hinge", "squared_hinge"
	averagePA    bool    // 平均化PAを使用するか
	warmStart    bool    // 前回の学習から継続するか

	// 学習パラメータ
	coef_         [][]float64 // 重み係数（クラス数 x 特徴数）
	intercept_    []float64   // 切片（クラス数）
	avgCoef_      [][]float64 // 平均化された重み
	avgIntercept_ []float64   // 平均化された切片
	classes_      []int       // クラスラベル
	nClasses_     int         // クラス数

	// 学習状態
	nIter_     int   // 実行されたイテレーション数
	t_         int64 // 総ステップ数
	nFeatures_ int
}

// PassiveAggressiveOption は設定オプション
type PassiveAggressiveOption func(*PassiveAggressiveClassifier)

// NewPassiveAggressiveClassifier は新しいPassiveAggressiveClassifierを作成
func NewPassiveAggressiveClassifier(options ...PassiveAggressiveOption) *PassiveAggressiveClassifier {
	pa := &PassiveAggressiveClassifier{
		C:            1.0,
		fitIntercept: true,
		maxIter:      1000,
		loss:         "hinge",
	}

	for _, opt := range options {
		opt(pa)
	}

	return pa
}

// WithPAC は正則化パラメータを設定
func WithPAC(c float64) PassiveAggressiveOption {
	return func(pa *PassiveAggressiveClassifier) {
		pa.C = c
	}
}

// WithPAMaxIter は最大イテレーション数を設定
func WithPAMaxIter(maxIter int) PassiveAggressiveOption {
	return func(pa *PassiveAggressiveClassifier) {
		pa.maxIter = maxIter
	}
}

// WithPAFitIntercept は切片学習の有無を設定
func WithPAFitIntercept(fit bool) PassiveAggressiveOption {
	return func(pa *PassiveAggressiveClassifier) {
		pa.fitIntercept = fit
	}
}

// WithPALoss は損失関数を設定
func WithPALoss(loss string) PassiveAggressiveOption {
	return func(pa *PassiveAggressiveClassifier) {
		pa.loss = loss
	}
}

// WithPAAveraging は平均化PAの有効/無効を設定
func WithPAAveraging(average bool) PassiveAggressiveOption {
	return func(pa *PassiveAggressiveClassifier) {
		pa.averagePA = average
	}
}

// WithPAWarmStart はウォームスタートの有効/無効を設定
func WithPAWarmStart(warmStart bool) PassiveAggressiveOption {
	return func(pa *PassiveAggressiveClassifier) {
		pa.warmStart = warmStart
	}
}

// Fit はバッチ学習でモデルを訓練
func (pa *PassiveAggressiveClassifier) Fit(X, y mat.Matrix) error {
	if !pa.warmStart || pa.coef_ == nil {
		pa.reset()
	}

	rows, cols := X.Dims()
	if rows == 0 {
		return errors.ErrEmptyData
	}
	pa.nFeatures_ = cols

	// クラスを特定
	if pa.classes_ == nil {
		pa.classes_ = extractClassLabels(y)
		pa.nClasses_ = len(pa.classes_)
	}

	// 重みの初期化
	if pa.coef_ == nil {
		pa.initializeWeights()
	}

	// PassiveAggressive学習
	for iter := 0; iter < pa.maxIter; iter++ {
		for i := 0; i < rows; i++ {
			xi := mat.Row(nil, i, X)
			yi := int(y.At(i, 0))

			pa.updateWeights(xi, yi)
		}
		pa.nIter_++
	}

	pa.SetFitted()
	return nil
}

// PartialFit はミニバッチでモデルを逐次的に学習
func (pa *PassiveAggressiveClassifier) PartialFit(X, y mat.Matrix, classes []int) error {
	rows, cols := X.Dims()

	// 初回呼び出し時の初期化
	if pa.coef_ == nil {
		pa.nFeatures_ = cols

		if classes != nil {
			pa.classes_ = make([]int, len(classes))
			copy(pa.classes_, classes)
			pa.nClasses_ = len(classes)
		} else {
			pa.classes_ = extractClassLabels(y)
			pa.nClasses_ = len(pa.classes_)
		}

		pa.initializeWeights()
	}

	if cols != pa.nFeatures_ {
		return errors.NewDimensionError("PartialFit", pa.nFeatures_, cols, 1)
	}

	// ミニバッチ処理
	for i := 0; i < rows; i++ {
		xi := mat.Row(nil, i, X)
		yi := int(y.At(i, 0))

		pa.updateWeights(xi, yi)
	}

	pa.SetFitted()
	return nil
}

// updateWeights は単一サンプルで重みを更新
func (pa *PassiveAggressiveClassifier) updateWeights(x []float64, y int) {
	// クラスインデックスを取得
	classIdx := classIndex(pa.classes_, y)
	if classIdx == -1 {
		return // 未知のクラス
	}

	// 各クラスについて処理
	for c := 0; c < pa.nClasses_; c++ {
		// スコア計算
		score := pa.intercept_[c]
		for i, xi := range x {
			score += pa.coef_[c][i] * xi
		}

		target := -1.0
		if c == classIdx {
			target = 1.0
		}

		var loss, tau float64

		// 損失計算とτ計算
		switch pa.loss {
		case "squared_hinge":
			margin := target * score
			if margin < 1 {
				diff := 1 - margin
				loss = 0.5 * diff * diff
				tau = diff / (dotProduct(x, x) + 1.0/(2.0*pa.C))
				tau = tau * target
			}
		default:
			// デフォルトはhinge
			margin := target * score
			if margin < 1 {
				loss = 1 - margin
				tau = loss / (dotProduct(x, x) + 1.0/(2.0*pa.C))
				tau = tau * target
			}
		}

		// 重み更新
		if tau != 0 {
			for i, xi := range x {
				pa.coef_[c][i] += tau * xi

				// 平均化PA
				if pa.averagePA {
					pa.avgCoef_[c][i] = (pa.avgCoef_[c][i]*float64(pa.t_) + pa.coef_[c][i]) / float64(pa.t_+1)
				}
			}

			// 切片更新
			if pa.fitIntercept {
				pa.intercept_[c] += tau
				if pa.averagePA {
					pa.avgIntercept_[c] = (pa.avgIntercept_[c]*float64(pa.t_) + pa.intercept_[c]) / float64(pa.t_+1)
				}
			}
		}
	}

	pa.t_++
}

// Predict は入力データに対する予測を行う
func (pa *PassiveAggressiveClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !pa.IsFitted() {
		return nil, errors.NewNotFittedError("PassiveAggressiveClassifier", "Predict")
	}

	rows, cols := X.Dims()
	if cols != pa.nFeatures_ {
		return nil, errors.NewDimensionError("Predict", pa.nFeatures_, cols, 1)
	}

	predictions := mat.NewDense(rows, 1, nil)

	coef := pa.coef_
	intercept := pa.intercept_
	if pa.averagePA && pa.avgCoef_ != nil {
		coef = pa.avgCoef_
		intercept = pa.avgIntercept_
	}

	for i := 0; i < rows; i++ {
		maxScore := math.Inf(-1)
		predictedClass := pa.classes_[0]

		// 各クラスのスコアを計算
		for c := 0; c < pa.nClasses_; c++ {
			score := intercept[c]
			for j := 0; j < cols; j++ {
				score += X.At(i, j) * coef[c][j]
			}

			if score > maxScore {
				maxScore = score
				predictedClass = pa.classes_[c]
			}
		}

		predictions.Set(i, 0, float64(predictedClass))
	}

	return predictions, nil
}

// Classes は学習時に観測したクラスラベルを返す
func (pa *PassiveAggressiveClassifier) Classes() []int {
	out := make([]int, len(pa.classes_))
	copy(out, pa.classes_)
	return out
}

// NIterations は実行された学習イテレーション数を返す
func (pa *PassiveAggressiveClassifier) NIterations() int {
	return pa.nIter_
}

// initializeWeights は重みを初期化
func (pa *PassiveAggressiveClassifier) initializeWeights() {
	pa.coef_ = make([][]float64, pa.nClasses_)
	pa.intercept_ = make([]float64, pa.nClasses_)
	pa.avgCoef_ = make([][]float64, pa.nClasses_)
	pa.avgIntercept_ = make([]float64, pa.nClasses_)

	for c := 0; c < pa.nClasses_; c++ {
		pa.coef_[c] = make([]float64, pa.nFeatures_)
		pa.avgCoef_[c] = make([]float64, pa.nFeatures_)
	}
}

// reset は内部状態をリセット
func (pa *PassiveAggressiveClassifier) reset() {
	pa.coef_ = nil
	pa.intercept_ = nil
	pa.avgCoef_ = nil
	pa.avgIntercept_ = nil
	pa.classes_ = nil
	pa.nClasses_ = 0
	pa.nIter_ = 0
	pa.t_ = 0
	pa.Reset()
}

// 補助関数
func dotProduct(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
