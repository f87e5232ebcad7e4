package config

const (
	defaultDriver = "file"
	defaultDir    = "storage"
)

type StorageConfig struct {
	DriverName string `yaml:"driver"`
	DirPath    string `yaml:"dir"`
}

func (s *StorageConfig) Driver() string {
	if s.DriverName == "" {
		return defaultDriver
	}
	return s.DriverName
}

func (s *StorageConfig) Dir() string {
	if s.DirPath == "" {
		return defaultDir
	}
	return s.DirPath
}
