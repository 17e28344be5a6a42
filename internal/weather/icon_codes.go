package weather

// Condition is the provider's primary weather group ("main").
type Condition string

// Conditions reported by OpenWeather.
const (
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionRain         Condition = "Rain"
	ConditionSnow         Condition = "Snow"
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionMist         Condition = "Mist"
	ConditionSmoke        Condition = "Smoke"
	ConditionHaze         Condition = "Haze"
	ConditionDust         Condition = "Dust"
	ConditionFog          Condition = "Fog"
	ConditionSand         Condition = "Sand"
	ConditionAsh          Condition = "Ash"
	ConditionSquall       Condition = "Squall"
	ConditionTornado      Condition = "Tornado"
)

// IconUnknown is the weather-icons class for unrecognized conditions.
const IconUnknown = "wi wi-na"

// conditionIcons maps conditions to weather-icons classes
var conditionIcons = map[Condition]string{
	ConditionThunderstorm: "wi wi-thunderstorm",
	ConditionDrizzle:      "wi wi-sprinkle",
	ConditionRain:         "wi wi-rain",
	ConditionSnow:         "wi wi-snow",
	ConditionClear:        "wi wi-day-sunny",
	ConditionClouds:       "wi wi-cloudy",
	ConditionMist:         "wi wi-fog",
	ConditionSmoke:        "wi wi-smoke",
	ConditionHaze:         "wi wi-day-haze",
	ConditionDust:         "wi wi-dust",
	ConditionFog:          "wi wi-fog",
	ConditionSand:         "wi wi-sandstorm",
	ConditionAsh:          "wi wi-volcano",
	ConditionSquall:       "wi wi-strong-wind",
	ConditionTornado:      "wi wi-tornado",
}

// Known reports whether c is one of the provider's documented groups.
func (c Condition) Known() bool {
	_, ok := conditionIcons[c]
	return ok
}

// IconFor returns the icon class for c, IconUnknown if c is not recognized.
func IconFor(c Condition) string {
	if icon, ok := conditionIcons[c]; ok {
		return icon
	}
	return IconUnknown
}
