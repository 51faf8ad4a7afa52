package providers

const (
	// Identifier for ipinfo.io.
	NameIPInfo = "ipinfo"

	// Identifier for openweathermap.org.
	NameOpenWeatherMap = "openweathermap"
)
