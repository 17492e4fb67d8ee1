package config

// LoggingConfig selects the structured logger's level, encoding and sink
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	// FilePath is required when Output is "file"
	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`

	// Service is attached to every record
	Service string `mapstructure:"service"`
}
