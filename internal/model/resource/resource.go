package resource

// Music phrases the recommendation prompt allows the model to choose from.
const (
	NatureSounds  = "Nature Sounds"
	PianoMelodies = "Piano Melodies"
	OceanWaves    = "Ocean Waves"
	UpbeatFolk    = "Upbeat Folk"
	Chillwave     = "Chillwave"
)

// DefaultLabel keys the locator served for phrases outside the vocabulary.
const DefaultLabel = "default"

// DefaultLocator is served whenever a label cannot be resolved.
const DefaultLocator = "./sounds/111.mp3"

// Track maps an audio-cue label to its locator.
type Track struct {
	Label   string `json:"label"`
	Locator string `json:"locator"`
}

// Seed provides the bundled audio tracks shipped with the frontend.
func Seed() []Track {
	return []Track{
		{Label: NatureSounds, Locator: "./sounds/1.mp3"},
		{Label: PianoMelodies, Locator: "./sounds/2.mp3"},
		{Label: OceanWaves, Locator: "./sounds/3.mp3"},
		{Label: UpbeatFolk, Locator: "./sounds/4.mp3"},
		{Label: Chillwave, Locator: "./sounds/5.mp3"},
		{Label: DefaultLabel, Locator: DefaultLocator},
	}
}

// Phrases returns the closed music vocabulary in prompt order.
func Phrases() []string {
	return []string{NatureSounds, PianoMelodies, OceanWaves, UpbeatFolk, Chillwave}
}
