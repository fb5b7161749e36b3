package match

import (
	"image"
	"math"
)

// NCC is the pure Go Correlator. It computes the zero-mean normalized
// cross-correlation, using summed-area tables of the region for the window
// statistics:
//
//	score = Σ (T - mean(T)) · I  /  sqrt(Σ (T - mean(T))² · Σ (I - mean(I))²)
//
// A constant condition scores 1 everywhere. A constant window under a
// non-constant condition scores 0.
//
// The window statistics cost O(W·H) but the numerator is summed directly,
// so a region of W×H and a condition of w×h cost O(W·H·w·h). Both sizes are
// taken at the scale ratio, which keeps it small at usual qualities. For
// large conditions or high qualities build with -tags gocv, whose
// correlator runs in OpenCV.
type NCC struct{}

// Correlate implements Correlator.
func (NCC) Correlate(region, condition *image.Gray) (*CorrelationMap, error) {
	if region == nil || condition == nil {
		return &CorrelationMap{}, nil
	}
	rb, cb := region.Bounds(), condition.Bounds()
	W, H := rb.Dx(), rb.Dy()
	w, h := cb.Dx(), cb.Dy()
	cm := NewCorrelationMap(H-h+1, W-w+1)
	if cm.Empty() || w <= 0 || h <= 0 {
		return cm, nil
	}

	n := float64(w * h)
	tmpl := make([]float64, 0, w*h)
	var sumT float64
	for y := cb.Min.Y; y < cb.Max.Y; y++ {
		for x := cb.Min.X; x < cb.Max.X; x++ {
			v := float64(condition.Pix[condition.PixOffset(x, y)])
			tmpl = append(tmpl, v)
			sumT += v
		}
	}
	meanT := sumT / n
	var normT float64
	for i := range tmpl {
		tmpl[i] -= meanT
		normT += tmpl[i] * tmpl[i]
	}

	rows, cols := H-h+1, W-w+1
	if normT < 1e-9 {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				cm.m.Set(r, c, 1)
			}
		}
		return cm, nil
	}

	pix := make([]float64, W*H)
	for y := 0; y < H; y++ {
		off := region.PixOffset(rb.Min.X, rb.Min.Y+y)
		for x := 0; x < W; x++ {
			pix[y*W+x] = float64(region.Pix[off+x])
		}
	}
	sum, sumSq := integralImages(pix, W, H)
	stride := W + 1

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var num float64
			for y := 0; y < h; y++ {
				line := pix[(r+y)*W+c : (r+y)*W+c+w]
				t := tmpl[y*w : y*w+w]
				for x, v := range line {
					num += t[x] * v
				}
			}

			ws := windowSum(sum, stride, c, r, w, h)
			wsq := windowSum(sumSq, stride, c, r, w, h)
			normI := math.Max(wsq-ws*ws/n, 0)

			cm.m.Set(r, c, normalize(num, math.Sqrt(normI*normT)))
		}
	}
	return cm, nil
}

// normalize divides num by its Cauchy-Schwarz bound. Values slightly above
// the bound from rounding saturate to ±1, anything further is treated as a
// degenerate window.
func normalize(num, bound float64) float64 {
	switch a := math.Abs(num); {
	case a < bound:
		return num / bound
	case a < bound*1.125:
		if num > 0 {
			return 1
		}
		return -1
	default:
		return 0
	}
}

// integralImages returns the summed-area tables of pix and of its squares,
// each (W+1)×(H+1) with a zero first row and column.
func integralImages(pix []float64, W, H int) (sum, sumSq []float64) {
	stride := W + 1
	sum = make([]float64, stride*(H+1))
	sumSq = make([]float64, stride*(H+1))
	for y := 0; y < H; y++ {
		var rowSum, rowSq float64
		for x := 0; x < W; x++ {
			v := pix[y*W+x]
			rowSum += v
			rowSq += v * v
			i := (y+1)*stride + x + 1
			sum[i] = sum[i-stride] + rowSum
			sumSq[i] = sumSq[i-stride] + rowSq
		}
	}
	return sum, sumSq
}

func windowSum(table []float64, stride, x, y, w, h int) float64 {
	return table[(y+h)*stride+x+w] - table[y*stride+x+w] - table[(y+h)*stride+x] + table[y*stride+x]
}
