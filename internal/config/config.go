// Package config handles editor configuration loading and management.
package config

// Config holds all editor settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Editing  EditingConfig  `yaml:"editing"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	Wireframe  bool `yaml:"wireframe"`
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	FOV         float32 `yaml:"fov"` // vertical field of view, degrees
	NearPlane   float32 `yaml:"near_plane"`
	FarPlane    float32 `yaml:"far_plane"`
	Distance    float32 `yaml:"distance"`
	OrbitSpeed  float32 `yaml:"orbit_speed"`
	ZoomSpeed   float32 `yaml:"zoom_speed"`
	InvertOrbit bool    `yaml:"invert_orbit"`
}

// EditingConfig holds selection and soft-selection settings.
type EditingConfig struct {
	VertexPickTolerance float32 `yaml:"vertex_pick_tolerance"` // max hit-to-vertex distance, 0 disables the cutoff
	BrushRadius         float32 `yaml:"brush_radius"`
	SoftSelectRadius    float32 `yaml:"soft_select_radius"`
	SoftSelectEnabled   bool    `yaml:"soft_select_enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			Wireframe:  false,
		},
		Camera: CameraConfig{
			FOV:         60,
			NearPlane:   0.1,
			FarPlane:    500,
			Distance:    8,
			OrbitSpeed:  0.4,
			ZoomSpeed:   1.0,
			InvertOrbit: false,
		},
		Editing: EditingConfig{
			VertexPickTolerance: 0.25,
			BrushRadius:         1.0,
			SoftSelectRadius:    2.0,
			SoftSelectEnabled:   true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
