package utils

import (
	"log"
	"os"
)

type LoggerConfig struct {
	Output *os.File
}

func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	return log.New(cfg.Output, "[Learning Platform] ", log.LstdFlags|log.LUTC)
}
