package transform

import (
	"math"
	"testing"
)

func TestStatistics(t *testing.T) {
	img := NewImage(2, 2, 2)
	values := []float64{0, 0.25, 0.5, 1}
	i := 0
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, 0, values[i])
			img.Set(x, y, 1, 0.3)
			i++
		}
	}

	stats := Statistics(img)
	if len(stats) != 2 {
		t.Fatalf("Expected 2 channels, got %d", len(stats))
	}

	c0 := stats[0]
	if c0.Channel != 0 || math.Abs(c0.Mean-0.4375) > tolerance {
		t.Errorf("Unexpected channel 0 mean: %+v", c0)
	}
	if c0.Min != 0 || c0.Max != 1 {
		t.Errorf("Expected min 0 max 1, got %v/%v", c0.Min, c0.Max)
	}
	if c0.StdDev <= 0 {
		t.Errorf("Expected positive std dev, got %v", c0.StdDev)
	}

	c1 := stats[1]
	if math.Abs(c1.Mean-0.3) > tolerance || math.Abs(c1.StdDev) > tolerance {
		t.Errorf("Unexpected channel 1 statistics: %+v", c1)
	}
}

func TestStatistics_SingleSample(t *testing.T) {
	stats := Statistics(createTestImage(1, 1, 1, 0.7))
	if len(stats) != 1 || stats[0].StdDev != 0 || stats[0].Mean != 0.7 {
		t.Errorf("Unexpected statistics: %+v", stats)
	}
}

func TestStatistics_Empty(t *testing.T) {
	if Statistics(nil) != nil {
		t.Error("Expected nil statistics for nil image")
	}
	if Statistics(NewImage(0, 3, 1)) != nil {
		t.Error("Expected nil statistics for empty image")
	}
}
