package transform

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ChannelStatistics summarizes the samples of one channel
type ChannelStatistics struct {
	Channel int     `json:"channel"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Statistics computes per-channel mean, standard deviation, min and max.
// An empty image yields no statistics.
func (e *Engine) Statistics(img *Image) []ChannelStatistics {
	if img == nil || img.IsEmpty() {
		return nil
	}

	ch := img.channels
	planes := make([][]float64, ch)
	for c := range planes {
		planes[c] = make([]float64, 0, img.width*img.height)
	}
	for i, v := range img.pix {
		planes[i%ch] = append(planes[i%ch], v)
	}

	result := make([]ChannelStatistics, ch)
	for c, plane := range planes {
		mean, std := stat.MeanStdDev(plane, nil)
		if len(plane) < 2 {
			std = 0
		}
		result[c] = ChannelStatistics{
			Channel: c,
			Mean:    mean,
			StdDev:  std,
			Min:     floats.Min(plane),
			Max:     floats.Max(plane),
		}
	}
	return result
}

// Statistics computes per-channel statistics sequentially.
func Statistics(img *Image) []ChannelStatistics {
	return sequential().Statistics(img)
}
