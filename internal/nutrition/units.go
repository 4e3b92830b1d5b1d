package nutrition

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UnitSystem selects how weights and heights are entered and displayed.
// Storage is always metric.
type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

func (u UnitSystem) Valid() bool { return u == Metric || u == Imperial }

const (
	lbPerKg   = 2.20462
	inPerCm   = 0.393701
	cmPerInch = 2.54
)

func KgToLb(kg float64) float64 { return kg * lbPerKg }
func LbToKg(lb float64) float64 { return lb / lbPerKg }

// CmToFtIn splits a height into whole feet and inches rounded to one decimal.
func CmToFtIn(cm float64) (feet int, inches float64) {
	total := cm * inPerCm
	feet = int(math.Floor(total / 12))
	inches = roundTo(math.Mod(total, 12), 1)
	if inches >= 12 {
		feet++
		inches = 0
	}
	return feet, inches
}

// FtInToCm converts feet and inches to centimetres, one decimal.
func FtInToCm(feet int, inches float64) float64 {
	return roundTo((float64(feet)*12+inches)*cmPerInch, 1)
}

func FormatWeight(kg float64, u UnitSystem) string {
	if u == Imperial {
		return fmt.Sprintf("%g lb", roundTo(KgToLb(kg), 1))
	}
	return fmt.Sprintf("%g kg", kg)
}

func FormatHeight(cm float64, u UnitSystem) string {
	if u == Imperial {
		ft, in := CmToFtIn(cm)
		return fmt.Sprintf("%d'%g\"", ft, in)
	}
	return fmt.Sprintf("%g cm", cm)
}

// ParseWeight reads a positive weight in the given system and returns kg.
func ParseWeight(s string, u UnitSystem) (float64, bool) {
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0, false
	}
	if u == Imperial {
		return LbToKg(w), true
	}
	return w, true
}

// ParseHeight reads feet and inches and returns cm. Blank parts count as zero;
// inches must be in [0, 12).
func ParseHeight(feet, inches string) (float64, bool) {
	ft, in := 0, 0.0
	if s := strings.TrimSpace(feet); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		ft = v
	}
	if s := strings.TrimSpace(inches); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		in = v
	}
	if ft < 0 || in < 0 || in >= 12 {
		return 0, false
	}
	return FtInToCm(ft, in), true
}
