package models

// Option vocabularies offered by the generator form. Order is significant:
// the first entry of each single-choice set is the initial selection and the
// slices are rendered in this order.
var (
	Locations = []string{
		"Parking Lot",
		"Convenience Store",
		"Bank ATM",
		"Office Building Lobby",
		"Subway Station",
		"Shopping Mall",
		"Gas Station",
		"Apartment Building",
		"Warehouse",
		"School Hallway",
	}

	TimesOfDay = []string{
		"Early Morning (5-7 AM)",
		"Morning Rush (7-9 AM)",
		"Mid-Morning (9-12 PM)",
		"Afternoon (12-5 PM)",
		"Evening (5-8 PM)",
		"Night (8 PM-12 AM)",
		"Late Night (12-5 AM)",
	}

	WeatherConditions = []string{
		"Clear",
		"Cloudy",
		"Rainy",
		"Foggy",
		"Snowy",
		"Stormy",
	}

	VisualArtifacts = []string{
		"Frame skips",
		"Lens distortion",
		"Motion blur",
		"Overexposure",
		"Underexposure",
		"Pixelation",
		"Compression artifacts",
		"Lens flare",
		"Fish-eye effect",
		"Chromatic aberration",
		"Scan lines",
		"Static noise",
		"Interlacing",
		"Date/Time overlay",
		"Camera ID overlay",
		"Grid overlay",
		"Low frame rate",
		"Grainy texture",
		"Vignetting",
		"Color banding",
	}

	// DefaultVisualArtifacts is the artifact selection a fresh form starts with
	DefaultVisualArtifacts = []string{
		"Date/Time overlay",
		"Camera ID overlay",
		"Low frame rate",
	}
)

// OptionSets is the JSON shape of the vocabularies served to clients
type OptionSets struct {
	Locations         []string         `json:"locations"`
	TimesOfDay        []string         `json:"times_of_day"`
	WeatherConditions []string         `json:"weather"`
	VisualArtifacts   []string         `json:"visual_artifacts"`
	Defaults          GeneratorOptions `json:"defaults"`
}

// GetOptionSets returns copies of every vocabulary plus the default selection
func GetOptionSets() OptionSets {
	return OptionSets{
		Locations:         cloneStrings(Locations),
		TimesOfDay:        cloneStrings(TimesOfDay),
		WeatherConditions: cloneStrings(WeatherConditions),
		VisualArtifacts:   cloneStrings(VisualArtifacts),
		Defaults:          DefaultOptions(),
	}
}

// DefaultOptions returns the initial form state (scene left blank)
func DefaultOptions() GeneratorOptions {
	return GeneratorOptions{
		Location:        Locations[0],
		TimeOfDay:       TimesOfDay[0],
		Weather:         WeatherConditions[0],
		VisualArtifacts: cloneStrings(DefaultVisualArtifacts),
	}
}

// IsKnownLocation reports whether value is one of Locations
func IsKnownLocation(value string) bool {
	return contains(Locations, value)
}

// IsKnownTimeOfDay reports whether value is one of TimesOfDay
func IsKnownTimeOfDay(value string) bool {
	return contains(TimesOfDay, value)
}

// IsKnownWeather reports whether value is one of WeatherConditions
func IsKnownWeather(value string) bool {
	return contains(WeatherConditions, value)
}

// IsKnownVisualArtifact reports whether value is one of VisualArtifacts
func IsKnownVisualArtifact(value string) bool {
	return contains(VisualArtifacts, value)
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
