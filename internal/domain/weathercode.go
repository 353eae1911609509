package domain

// weatherCodes maps WMO weather interpretation codes, as returned in the
// Open-Meteo "weather_code" field, to Russian descriptors.
var weatherCodes = map[int]string{
	0:  "ясно",
	1:  "преимущественно ясно",
	2:  "переменная облачность",
	3:  "пасмурно",
	45: "туман",
	48: "изморозь и туман",
	51: "слабая морось",
	53: "умеренная морось",
	55: "сильная морось",
	56: "слабая ледяная морось",
	57: "сильная ледяная морось",
	61: "слабый дождь",
	63: "умеренный дождь",
	65: "сильный дождь",
	66: "слабый ледяной дождь",
	67: "сильный ледяной дождь",
	71: "слабый снегопад",
	73: "умеренный снегопад",
	75: "сильный снегопад",
	77: "снежные зёрна",
	80: "слабый ливень",
	81: "умеренный ливень",
	82: "сильный ливень",
	85: "слабый снежный заряд",
	86: "сильный снежный заряд",
	95: "гроза",
	96: "гроза со слабым градом",
	99: "гроза с сильным градом",
}

// DescribeWeatherCode returns the descriptor for a WMO code, or
// UnknownCategory when the code is not mapped.
func DescribeWeatherCode(code int) string {
	if d, ok := weatherCodes[code]; ok {
		return d
	}
	return UnknownCategory
}
