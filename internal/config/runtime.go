package config

import (
	"os"
	"path/filepath"
)

const (
	runtimePathEnv     = "QUERYBOT_RUNTIME_PATH"
	defaultRuntimePath = ".querybot"
)

// GetRuntimePath resolves the runtime directory before the rest of the
// configuration is parsed. Relative paths are taken from the home directory.
func GetRuntimePath() string {
	path := os.Getenv(runtimePathEnv)
	if path == "" {
		path = defaultRuntimePath
	}
	if filepath.IsAbs(path) {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path)
}

// GetEnvFilePath is where the installer writes and the commands read .env.
func GetEnvFilePath() string {
	return filepath.Join(GetRuntimePath(), ".env")
}

func IsDebug() bool {
	return os.Getenv("QUERYBOT_DEBUG") == "1"
}
