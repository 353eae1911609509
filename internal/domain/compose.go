package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Alert is a composed notification. It is deliverable only when both
// Illustration and Text are non-empty.
type Alert struct {
	Illustration     string
	Text             string
	WeatherTriggered bool
	ColdSnap         bool
}

// Deliverable reports whether the alert should be sent.
func (a Alert) Deliverable() bool {
	return a.Illustration != "" && a.Text != ""
}

// MatchTrigger returns the first trigger contained in category.
func MatchTrigger(category string) (string, bool) {
	for _, t := range Triggers {
		if strings.Contains(category, t) {
			return t, true
		}
	}
	return "", false
}

// Compose builds the alert for a known reading. Callers must check
// reading.IsUnknown first; an unknown reading yields an empty Alert.
//
// Fragments are appended in a fixed order: detected weather, temperature
// band, cold snap, closing remark.
func Compose(reading ForecastReading, prior PriorTemperature) Alert {
	if reading.IsUnknown() {
		return Alert{}
	}

	var (
		alert = Alert{}
		parts = make([]string, 0, 4)
		t     = reading.Temperature
	)

	if _, ok := MatchTrigger(reading.Category); ok {
		alert.Illustration = IllustrationForCategory(reading.Category)
		alert.WeatherTriggered = true
		parts = append(parts, fmt.Sprintf(detectedWeatherFormat, reading.Category))
	}

	switch {
	case t < MinTemperature:
		parts = append(parts, fmt.Sprintf(freezingFormat, FormatCelsius(t)))
		if !alert.WeatherTriggered {
			alert.Illustration = ColdIllustration
		}
	case t > MaxTemperature:
		parts = append(parts, fmt.Sprintf(heatFormat, FormatCelsius(t)))
		if !alert.WeatherTriggered {
			alert.Illustration = HotIllustration
		}
	default:
		parts = append(parts, fmt.Sprintf(averageFormat, FormatCelsius(t)))
	}

	if !alert.WeatherTriggered && prior.Known && prior.Celsius > 0 && t < 0 {
		parts = append(parts, fmt.Sprintf(coldSnapFormat, FormatCelsius(prior.Celsius), FormatCelsius(t)))
		alert.Illustration = IceIllustration
		alert.ColdSnap = true
	}

	parts = append(parts, closingRemark)
	alert.Text = strings.Join(parts, " ")
	return alert
}

// RoundTemperature rounds to one decimal place, half to even, on the exact
// binary value of v. 0.25 becomes 0.2; 0.35 (stored as 0.34999…) becomes 0.3.
func RoundTemperature(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	if r == 0 {
		// Drop the sign of negative zero so it never prints as "-0.0".
		return 0
	}
	return r
}

// FormatCelsius renders a temperature with the shortest exact decimal form
// and at least one fractional digit: -1 → "-1.0", 25.3 → "25.3".
func FormatCelsius(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
