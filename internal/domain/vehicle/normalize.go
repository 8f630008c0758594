package vehicle

import (
	"math"
	"strconv"
	"strings"

	"plaque-gateway/internal/utils"
)

// Unknown is the result for an empty or blank plate; nothing is looked up.
func Unknown(plate string) Result {
	return Result{Plaque: plate, Marque: MarqueUnknown, Energie: EnergieUnknown}
}

// NotFound is the result when the provider answered without data.
func NotFound(plate string) Result {
	return Result{Plaque: plate, Marque: MarqueNotFound, Energie: EnergieUnknown}
}

// Failed is the result when the provider could not be reached or its
// answer could not be decoded.
func Failed(plate string, err error) Result {
	res := Result{Plaque: plate, Marque: MarqueError, Energie: EnergieUnknown}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// Normalize maps a provider record to the fixed result shape.
func Normalize(plate string, rec RawRecord) Result {
	return Result{
		Success:   true,
		Plaque:    plate,
		Marque:    rec.Marque.StringOr(MarqueUnknown),
		Modele:    rec.Modele.StringOr(""),
		Energie:   rec.EnergieNGC.StringOr(EnergieUnknown),
		CO2PerKm:  ParseCO2(rec.CO2),
		Puissance: ParsePuissance(rec.PuisFisc),
		Cylindree: ParseCylindree(rec.CCM),
	}
}

// ParseCylindree extracts the engine displacement from values like
// "1998 cm3", "1 598" or 1998.
func ParseCylindree(v Value) *int {
	if !v.Truthy() {
		return nil
	}
	raw := v.Text()
	digits := utils.DigitsOnly(utils.CutAtLetter(raw))
	if digits == "" {
		digits = utils.DigitsOnly(raw)
	}
	if digits == "" {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}

// ParseCO2 reads grams of CO2 per km. Unparsable values are dropped.
func ParseCO2(v Value) *float64 {
	if !v.Truthy() || v.blank() {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Text()), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ParsePuissance reads the fiscal horsepower. Numbers are truncated,
// strings must hold an integer.
func ParsePuissance(v Value) *int {
	if !v.Truthy() {
		return nil
	}
	switch {
	case v.IsBool():
		n := 1
		return &n
	case v.IsNumber():
		f, err := strconv.ParseFloat(v.Text(), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
			return nil
		}
		n := int(f)
		return &n
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.Text()))
	if err != nil {
		return nil
	}
	return &n
}
