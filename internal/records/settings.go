package records

import "gameframework/pkg/domain"

// Record kinds.
const (
	KindAudioSettings    = "audio_settings"
	KindGraphicsSettings = "graphics_settings"
	KindGameplaySettings = "gameplay_settings"
	KindArchetypeCatalog = "archetype_catalog"
)

const settingsVersion = 1

// AudioSettings holds mixer levels in the 0..1 range.
type AudioSettings struct {
	Name          string
	MasterVolume  float64
	MusicVolume   float64
	EffectsVolume float64
	Muted         bool
}

// NewAudioSettings returns audio settings at their defaults.
func NewAudioSettings(name string) *AudioSettings {
	return &AudioSettings{Name: name, MasterVolume: 1, MusicVolume: 0.8, EffectsVolume: 1}
}

// Label implements Labeled.
func (s *AudioSettings) Label() string { return s.Name }

// SerializableData implements domain.Record.
func (s *AudioSettings) SerializableData() domain.RecordData {
	data := domain.NewRecordData(KindAudioSettings, settingsVersion)
	data.Set("name", s.Name)
	data.Set("master_volume", s.MasterVolume)
	data.Set("music_volume", s.MusicVolume)
	data.Set("effects_volume", s.EffectsVolume)
	data.Set("muted", s.Muted)
	return data
}

// FillFromSerializableData implements domain.Record. Missing or mistyped
// values keep their current setting.
func (s *AudioSettings) FillFromSerializableData(data domain.RecordData) {
	fillFloat(data, "master_volume", &s.MasterVolume)
	fillFloat(data, "music_volume", &s.MusicVolume)
	fillFloat(data, "effects_volume", &s.EffectsVolume)
	fillBool(data, "muted", &s.Muted)
}

// GraphicsSettings holds display options.
type GraphicsSettings struct {
	Name       string
	Width      int64
	Height     int64
	Fullscreen bool
	VSync      bool
	Quality    string
}

// NewGraphicsSettings returns graphics settings at their defaults.
func NewGraphicsSettings(name string) *GraphicsSettings {
	return &GraphicsSettings{Name: name, Width: 1920, Height: 1080, VSync: true, Quality: "high"}
}

// Label implements Labeled.
func (s *GraphicsSettings) Label() string { return s.Name }

// SerializableData implements domain.Record.
func (s *GraphicsSettings) SerializableData() domain.RecordData {
	data := domain.NewRecordData(KindGraphicsSettings, settingsVersion)
	data.Set("name", s.Name)
	data.Set("width", s.Width)
	data.Set("height", s.Height)
	data.Set("fullscreen", s.Fullscreen)
	data.Set("vsync", s.VSync)
	data.Set("quality", s.Quality)
	return data
}

// FillFromSerializableData implements domain.Record.
func (s *GraphicsSettings) FillFromSerializableData(data domain.RecordData) {
	fillInt(data, "width", &s.Width)
	fillInt(data, "height", &s.Height)
	fillBool(data, "fullscreen", &s.Fullscreen)
	fillBool(data, "vsync", &s.VSync)
	fillString(data, "quality", &s.Quality)
}

// GameplaySettings holds player-facing gameplay options.
type GameplaySettings struct {
	Name        string
	Difficulty  string
	Subtitles   bool
	FieldOfView float64
	Language    string
}

// NewGameplaySettings returns gameplay settings at their defaults.
func NewGameplaySettings(name string) *GameplaySettings {
	return &GameplaySettings{Name: name, Difficulty: "normal", Subtitles: true, FieldOfView: 90, Language: "en"}
}

// Label implements Labeled.
func (s *GameplaySettings) Label() string { return s.Name }

// SerializableData implements domain.Record.
func (s *GameplaySettings) SerializableData() domain.RecordData {
	data := domain.NewRecordData(KindGameplaySettings, settingsVersion)
	data.Set("name", s.Name)
	data.Set("difficulty", s.Difficulty)
	data.Set("subtitles", s.Subtitles)
	data.Set("field_of_view", s.FieldOfView)
	data.Set("language", s.Language)
	return data
}

// FillFromSerializableData implements domain.Record.
func (s *GameplaySettings) FillFromSerializableData(data domain.RecordData) {
	fillString(data, "difficulty", &s.Difficulty)
	fillBool(data, "subtitles", &s.Subtitles)
	fillFloat(data, "field_of_view", &s.FieldOfView)
	fillString(data, "language", &s.Language)
}

func fillFloat(data domain.RecordData, key string, dst *float64) {
	if v, ok := data.FloatValue(key); ok {
		*dst = v
	}
}

func fillInt(data domain.RecordData, key string, dst *int64) {
	if v, ok := data.IntValue(key); ok {
		*dst = v
	}
}

func fillBool(data domain.RecordData, key string, dst *bool) {
	if v, ok := data.BoolValue(key); ok {
		*dst = v
	}
}

func fillString(data domain.RecordData, key string, dst *string) {
	if v, ok := data.StringValue(key); ok {
		*dst = v
	}
}
