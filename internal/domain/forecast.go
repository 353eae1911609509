package domain

// UnknownCategory is the descriptor used when the weather could not be
// determined or the upstream code is not in the table.
const UnknownCategory = "неизвестно"

// ForecastReading is the normalized result of one forecast fetch.
type ForecastReading struct {
	Temperature      float64 // average of the daily max and min, °C
	TemperatureKnown bool
	Category         string
}

// NewForecastReading builds a reading with a known temperature.
func NewForecastReading(temperature float64, category string) ForecastReading {
	return ForecastReading{
		Temperature:      temperature,
		TemperatureKnown: true,
		Category:         category,
	}
}

// UnknownReading is the sentinel pair returned when the forecast could not be
// fetched or parsed.
func UnknownReading() ForecastReading {
	return ForecastReading{Category: UnknownCategory}
}

// IsUnknown reports whether the reading carries no usable weather data.
func (r ForecastReading) IsUnknown() bool {
	return !r.TemperatureKnown || r.Category == UnknownCategory
}

// PriorTemperature is yesterday's average temperature, if one was recorded.
type PriorTemperature struct {
	Celsius float64
	Known   bool
}

// NoPriorTemperature is the value used before the first successful run.
func NoPriorTemperature() PriorTemperature {
	return PriorTemperature{}
}

// KnownPriorTemperature wraps a recorded value.
func KnownPriorTemperature(celsius float64) PriorTemperature {
	return PriorTemperature{Celsius: celsius, Known: true}
}
