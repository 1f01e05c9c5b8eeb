package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort           string
	TemplatePath         string
	TemplateSheet        string
	AddendumFetchTimeout time.Duration
	MaxItemRows          int
	MaxFileSize          int64
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	templatePath := os.Getenv("TEMPLATE_PATH")
	if templatePath == "" {
		templatePath = "/opt/contract-extractor/templates/contract_v3.xlsx"
	}

	templateSheet := os.Getenv("TEMPLATE_SHEET")
	if templateSheet == "" {
		templateSheet = "Contract"
	}

	fetchTimeout := 15 * time.Second
	if v := os.Getenv("ADDENDUM_FETCH_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			fetchTimeout = time.Duration(secs) * time.Second
		}
	}

	maxItemRows := 120
	if v := os.Getenv("MAX_ITEM_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxItemRows = n
		}
	}

	maxFileSize := int64(10 * 1024 * 1024) // 10 MB
	if v := os.Getenv("MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxFileSize = n
		}
	}

	return &Config{
		ServerPort:           serverPort,
		TemplatePath:         templatePath,
		TemplateSheet:        templateSheet,
		AddendumFetchTimeout: fetchTimeout,
		MaxItemRows:          maxItemRows,
		MaxFileSize:          maxFileSize,
	}
}
