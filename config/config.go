package config

import (
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

type ObjectStorage struct {
	Endpoint  string `yaml:"Endpoint"`
	AccessKey string `yaml:"AccessKey"`
	SecretKey string `yaml:"SecretKey"`
	Bucket    string `yaml:"Bucket"`
	Region    string `yaml:"Region"`
}

type Gmail struct {
	CredentialsFile string `yaml:"CredentialsFile"`
	TokenFile       string `yaml:"TokenFile"`
}

type IMAP struct {
	Host     string `yaml:"Host"`
	Email    string `yaml:"Email"`
	Password string `yaml:"Password"`
	UseTLS   bool   `yaml:"UseTLS"`
}

type LLM struct {
	APIBase     string  `yaml:"APIBase"`
	APIKey      string  `yaml:"APIKey"`
	Model       string  `yaml:"Model"`
	Temperature float64 `yaml:"Temperature"`
	MaxTokens   int     `yaml:"MaxTokens"`
}

type Scan struct {
	DaysBack    int `yaml:"DaysBack"`
	MaxMessages int `yaml:"MaxMessages"`
	Workers     int `yaml:"Workers"`
}

type Config struct {
	Database      string        `yaml:"Database"`
	LogFile       string        `yaml:"LogFile"`
	Listen        string        `yaml:"Listen"`
	Mailbox       string        `yaml:"Mailbox"` // "gmail" or "imap"
	Gmail         Gmail         `yaml:"Gmail"`
	IMAP          IMAP          `yaml:"IMAP"`
	LLM           LLM           `yaml:"LLM"`
	Scan          Scan          `yaml:"Scan"`
	ObjectStorage ObjectStorage `yaml:"ObjectStorage"`
}

var envVarRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// ${VAR} references are resolved from the environment before parsing
	expanded := envVarRe.ReplaceAllStringFunc(string(buf), func(m string) string {
		return os.Getenv(envVarRe.FindStringSubmatch(m)[1])
	})

	var conf Config
	if err := yaml.Unmarshal([]byte(expanded), &conf); err != nil {
		return nil, err
	}

	if conf.Listen == "" {
		conf.Listen = ":8080"
	}
	if conf.Mailbox == "" {
		conf.Mailbox = "gmail"
	}
	if conf.Scan.DaysBack <= 0 {
		conf.Scan.DaysBack = 7
	}
	if conf.Scan.MaxMessages <= 0 {
		conf.Scan.MaxMessages = 100
	}
	if conf.Scan.Workers <= 0 {
		conf.Scan.Workers = 4
	}
	if conf.LLM.MaxTokens <= 0 {
		conf.LLM.MaxTokens = 256
	}

	return &conf, nil
}
