package services

import (
	"fmt"
	"math"

	"training-center-api/models"
)

const (
	BMIUnderweight = "bajo_peso"
	BMINormal      = "normal"
	BMIOverweight  = "sobrepeso"
	BMIObese       = "obesidad"
)

var bmiLabels = map[string]string{
	BMIUnderweight: "Bajo peso",
	BMINormal:      "Peso normal",
	BMIOverweight:  "Sobrepeso",
	BMIObese:       "Obesidad",
}

// ComputeBMI считает ИМТ (кг/м²) с округлением до сотых.
func ComputeBMI(weightKg, heightCm float64) (float64, error) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, fmt.Errorf("weight and height must be positive, got %.2f kg / %.2f cm", weightKg, heightCm)
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*100) / 100, nil
}

// ClassifyBMI: пороги ВОЗ.
func ClassifyBMI(bmi float64) string {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

func BMILabel(category string) string {
	return bmiLabels[category]
}

// EnrichMeasurements дописывает ИМТ и категорию к замерам, где хватает данных.
func EnrichMeasurements(items []models.Measurement) []models.Measurement {
	out := make([]models.Measurement, 0, len(items))
	for _, m := range items {
		if bmi, err := ComputeBMI(m.WeightKg, m.HeightCm); err == nil {
			m.BMI = bmi
			m.Category = ClassifyBMI(bmi)
		}
		out = append(out, m)
	}
	return out
}
