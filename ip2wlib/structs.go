package ip2wlib

import (
	"encoding/json"
	"strings"
)

// Coordinates are latitude and longitude as they were returned by a
// geolocation provider. A zero value means that address is not
// resolved.
type Coordinates struct {
	Latitude  string
	Longitude string
}

func (c Coordinates) OK() bool {
	return c.Latitude != "" && c.Longitude != ""
}

// ParseCoordinates parses a comma-joined "lat,lon" pair. ok is false
// if there are not exactly 2 non-empty parts.
func ParseCoordinates(value string) (Coordinates, bool) {
	chunks := strings.Split(value, ",")
	if len(chunks) != 2 {
		return Coordinates{}, false
	}

	rv := Coordinates{
		Latitude:  strings.TrimSpace(chunks[0]),
		Longitude: strings.TrimSpace(chunks[1]),
	}

	if !rv.OK() {
		return Coordinates{}, false
	}

	return rv, true
}

// WeatherPayload is a current weather response of the provider. Fields
// are pointers because an absence of the field matters for a
// projection.
type WeatherPayload struct {
	Name *string `json:"name"`
	Main *struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []WeatherCondition `json:"weather"`
}

type WeatherCondition struct {
	Description *string `json:"description"`
}

// Summary projects a payload into a response structure. ok is false
// if payload has no weather conditions at all.
func (w *WeatherPayload) Summary() (WeatherSummary, bool) {
	rv := WeatherSummary{}

	if w == nil || len(w.Weather) == 0 {
		return rv, false
	}

	rv.City = w.Name

	if w.Main != nil && w.Main.Temp != nil {
		rv.Temp = Temperature{value: *w.Main.Temp, known: true}
	}

	if desc := w.Weather[0].Description; desc != nil {
		rv.Conditions = *desc
	}

	return rv, true
}

// WeatherSummary is a response of ip2w for a single IP address.
type WeatherSummary struct {
	City       *string     `json:"city"`
	Temp       Temperature `json:"temp"`
	Conditions string      `json:"conditions"`
}

// Temperature is serialized as a JSON number if it is known and as an
// empty string otherwise.
type Temperature struct {
	value float64
	known bool
}

func (t Temperature) Value() (float64, bool) {
	return t.value, t.known
}

func (t Temperature) MarshalJSON() ([]byte, error) {
	if !t.known {
		return []byte(`""`), nil
	}

	return json.Marshal(t.value)
}

func NewTemperature(value float64) Temperature {
	return Temperature{value: value, known: true}
}
