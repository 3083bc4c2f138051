package services

import (
	"testing"

	"training-center-api/models"
)

func TestComputeBMI(t *testing.T) {
	tests := []struct {
		kg, cm   float64
		want     float64
		category string
	}{
		{50, 175, 16.33, BMIUnderweight},
		{70, 175, 22.86, BMINormal},
		{85, 175, 27.76, BMIOverweight},
		{100, 170, 34.6, BMIObese},
	}
	for _, tt := range tests {
		got, err := ComputeBMI(tt.kg, tt.cm)
		if err != nil {
			t.Fatalf("ComputeBMI(%v, %v): %v", tt.kg, tt.cm, err)
		}
		if got != tt.want {
			t.Errorf("ComputeBMI(%v, %v) = %v, want %v", tt.kg, tt.cm, got, tt.want)
		}
		if c := ClassifyBMI(got); c != tt.category {
			t.Errorf("ClassifyBMI(%v) = %s, want %s", got, c, tt.category)
		}
	}

	if _, err := ComputeBMI(0, 170); err == nil {
		t.Error("zero weight accepted")
	}
}

func TestClassifyBMIBoundaries(t *testing.T) {
	if ClassifyBMI(18.5) != BMINormal || ClassifyBMI(25) != BMIOverweight || ClassifyBMI(30) != BMIObese {
		t.Error("boundary values classified wrong")
	}
	if BMILabel(BMIOverweight) != "Sobrepeso" {
		t.Errorf("label = %q", BMILabel(BMIOverweight))
	}
}

func TestEnrichMeasurements(t *testing.T) {
	got := EnrichMeasurements([]models.Measurement{
		{ID: "1", WeightKg: 70, HeightCm: 175},
		{ID: "2", WeightKg: 70},
	})
	if got[0].BMI != 22.86 || got[0].Category != BMINormal {
		t.Errorf("measurement[0] = %+v", got[0])
	}
	if got[1].BMI != 0 || got[1].Category != "" {
		t.Errorf("measurement[1] = %+v", got[1])
	}
}
