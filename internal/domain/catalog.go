package domain

import "sort"

// Band limits for the "normal" average temperature, °C. Both are exclusive:
// exactly MinTemperature or MaxTemperature is still normal.
const (
	MinTemperature = -20.0
	MaxTemperature = 30.0
)

// Sticker files shown when no weather trigger fired.
const (
	ColdIllustration = "cold_robot.webp"
	HotIllustration  = "hot_robot.webp"
	IceIllustration  = "ice_robot.webp"
)

// Triggers is a priority list: the first substring contained in a category
// wins. Matching is case-sensitive.
var Triggers = []string{
	"гроза",
	"ледян",
	"снегопад",
	"снежн",
	"ливень",
	"дождь",
	"морось",
	"туман",
}

// weatherIllustrations is keyed by the exact category string. Categories that
// hit a trigger but are absent here produce no sticker.
var weatherIllustrations = map[string]string{
	"гроза": "storm_robot.webp",
	"гроза со слабым градом": "hail_robot.webp",
	"гроза с сильным градом": "hail_robot.webp",
	"слабая ледяная морось":  "freezing_rain_robot.webp",
	"сильная ледяная морось": "freezing_rain_robot.webp",
	"слабый ледяной дождь":   "freezing_rain_robot.webp",
	"сильный ледяной дождь":  "freezing_rain_robot.webp",
	"слабый снегопад":        "snow_robot.webp",
	"умеренный снегопад":     "snow_robot.webp",
	"сильный снегопад":       "blizzard_robot.webp",
	"сильный снежный заряд":  "blizzard_robot.webp",
	"слабый ливень":          "rain_robot.webp",
	"умеренный ливень":       "shower_robot.webp",
	"сильный ливень":         "shower_robot.webp",
	"слабый дождь":           "rain_robot.webp",
	"умеренный дождь":        "rain_robot.webp",
	"сильный дождь":          "shower_robot.webp",
	"сильная морось":         "rain_robot.webp",
	"туман":                  "fog_robot.webp",
}

// IllustrationForCategory returns the sticker mapped to an exact category, or
// "" if there is none.
func IllustrationForCategory(category string) string {
	return weatherIllustrations[category]
}

// Illustrations lists every sticker file the composer can select, sorted.
func Illustrations() []string {
	seen := map[string]bool{ColdIllustration: true, HotIllustration: true, IceIllustration: true}
	for _, name := range weatherIllustrations {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Message fragments.
const (
	detectedWeatherFormat = "Птичка напела, что на улице %s."
	freezingFormat        = "Мороз! Средняя температура воздуха %s°C."
	heatFormat            = "Жара! Средняя температура воздуха %s°C."
	averageFormat         = "Средняя температура воздуха %s°C."
	coldSnapFormat        = "Наблюдаю резкое снижение температуры с %s°C до %s°C. Вероятен гололед! 🧊🧊🧊"
	closingRemark         = "Вероятно, сегодня люди воздержатся от выхода из дома. Ожидаем повышенный спрос на доставку!"
)
