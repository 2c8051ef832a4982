package classifier

import (
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/mr1hm/go-fire-risk/internal/models"
)

// Metrics are held-out diagnostics. Logged after training, never returned
// to API callers.
type Metrics struct {
	Accuracy  float64
	AUC       float64
	Precision float64
	Recall    float64
	F1        float64
	LogLoss   float64
}

// Evaluate scores samples and derives threshold metrics at 0.5 plus the
// ranking AUC.
func Evaluate(m Model, samples []models.RiskSample) Metrics {
	scores := make([]float64, len(samples))
	labels := make([]bool, len(samples))
	for i, s := range samples {
		scores[i] = m.PredictProbability(s)
		labels[i] = s.Label
	}

	var tp, fp, tn, fn float64
	var logLoss float64
	for i, p := range scores {
		predicted := p > 0.5
		switch {
		case predicted && labels[i]:
			tp++
		case predicted && !labels[i]:
			fp++
		case !predicted && !labels[i]:
			tn++
		default:
			fn++
		}

		pc := clampProb(p)
		if labels[i] {
			logLoss -= math.Log(pc)
		} else {
			logLoss -= math.Log(1 - pc)
		}
	}

	n := float64(len(samples))
	out := Metrics{
		Accuracy: (tp + tn) / n,
		LogLoss:  logLoss / n,
	}
	if tp+fp > 0 {
		out.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		out.Recall = tp / (tp + fn)
	}
	if out.Precision+out.Recall > 0 {
		out.F1 = 2 * out.Precision * out.Recall / (out.Precision + out.Recall)
	}
	out.AUC = auc(scores, labels)
	return out
}

// auc is the area under the ROC curve. Returns NaN-free 0 when only one
// class is present.
func auc(scores []float64, labels []bool) float64 {
	var pos, neg int
	for _, l := range labels {
		if l {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0
	}

	y := make([]float64, len(scores))
	classes := make([]bool, len(labels))
	copy(y, scores)
	copy(classes, labels)

	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}
