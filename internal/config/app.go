package config

const defaultListLimit = 20

type AppConfig struct {
	TimezoneName     string `yaml:"timezone"`
	ExpenseListLimit int    `yaml:"list-limit"`
}

func (s *AppConfig) Timezone() string {
	return s.TimezoneName
}

func (s *AppConfig) ListLimit() int {
	if s.ExpenseListLimit <= 0 {
		return defaultListLimit
	}
	return s.ExpenseListLimit
}
