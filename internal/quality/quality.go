package quality

import (
	"errors"
	"fmt"
	"math"

	"github.com/yyyoichi/stegano/internal/lsb"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrShapeMismatch = errors.New("images differ in size or channel layout")

var channelNames = [...]string{"R", "G", "B", "A"}

// Distortion summarizes the difference between a cover grid and a stego grid.
type Distortion struct {
	// Changed is the number of channel values, alpha included, that differ.
	Changed int
	// MSE and PSNR are computed over the red, green and blue channels.
	MSE  float64
	PSNR float64
}

// Compare measures how much stego differs from cover.
// PSNR is +Inf for identical images.
func Compare(cover, stego lsb.Grid) (Distortion, error) {
	if cover.Width() != stego.Width() || cover.Height() != stego.Height() || cover.Channels() != stego.Channels() {
		return Distortion{}, fmt.Errorf("%w: %dx%dx%d vs %dx%dx%d", ErrShapeMismatch,
			cover.Width(), cover.Height(), cover.Channels(),
			stego.Width(), stego.Height(), stego.Channels())
	}

	var (
		d    Distortion
		a, b = make([]float64, 0, cover.Len()*lsb.ChannelsPerPixel), make([]float64, 0, cover.Len()*lsb.ChannelsPerPixel)
	)
	for i := range cover.Len() {
		p, q := cover.Pixel(i), stego.Pixel(i)
		for c := range p {
			if p[c] != q[c] {
				d.Changed++
			}
			if c < lsb.ChannelsPerPixel {
				a = append(a, float64(p[c]))
				b = append(b, float64(q[c]))
			}
		}
	}
	if len(a) == 0 {
		d.PSNR = math.Inf(1)
		return d, nil
	}
	dist := floats.Distance(a, b, 2)
	d.MSE = dist * dist / float64(len(a))
	d.PSNR = psnr(d.MSE)
	return d, nil
}

func psnr(mse float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(255*255/mse)
}

// ChannelReport describes the least significant bits of one color channel.
type ChannelReport struct {
	Channel string `json:"channel"`
	// OnesRatio is the share of values with the least significant bit set.
	OnesRatio float64 `json:"ones_ratio"`
	// ChiSquare compares the histogram against the pairs-of-values
	// distribution produced by replacing LSBs with random bits.
	ChiSquare        float64 `json:"chi_square"`
	DegreesOfFreedom int     `json:"degrees_of_freedom"`
	// PValue close to 1 means the value pairs (2k, 2k+1) are as balanced as
	// a fully embedded channel; close to 0 means they are not.
	PValue float64 `json:"p_value"`
}

// AnalyzeLSB runs the pairs-of-values chi-square test on each payload-carrying channel of g.
func AnalyzeLSB(g lsb.Grid) []ChannelReport {
	reports := make([]ChannelReport, 0, lsb.ChannelsPerPixel)
	for c := range lsb.ChannelsPerPixel {
		var (
			hist [256]float64
			bits = make([]float64, g.Len())
		)
		for i := range g.Len() {
			v := g.Pixel(i)[c]
			hist[v]++
			bits[i] = float64(v & 1)
		}

		r := ChannelReport{Channel: channelNames[c]}
		if len(bits) > 0 {
			r.OnesRatio = stat.Mean(bits, nil)
		}
		r.ChiSquare, r.DegreesOfFreedom = pairsOfValues(hist)
		if r.DegreesOfFreedom > 0 {
			r.PValue = distuv.ChiSquared{K: float64(r.DegreesOfFreedom)}.Survival(r.ChiSquare)
		}
		reports = append(reports, r)
	}
	return reports
}

func pairsOfValues(hist [256]float64) (chi float64, dof int) {
	var categories int
	for k := 0; k < len(hist); k += 2 {
		expected := (hist[k] + hist[k+1]) / 2
		if expected == 0 {
			continue
		}
		diff := hist[k] - expected
		chi += diff * diff / expected
		categories++
	}
	if categories < 2 {
		return chi, 0
	}
	return chi, categories - 1
}
