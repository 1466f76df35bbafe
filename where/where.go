// Package where resolves the directories and files the client keeps on disk.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/ytgrab-cli/ytgrab/constant"
	"github.com/ytgrab-cli/ytgrab/filesystem"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "YTGRAB_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the directory holding ytgrab.toml, honoring YTGRAB_CONFIG_PATH.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache is the directory for disposable data such as the release version check.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs is the directory receiving daily log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// URLHistory is the file remembering previously looked up video URLs.
func URLHistory() string {
	return filepath.Join(Cache(), "urls.json")
}

// ConfigFile is the path of the TOML configuration file.
func ConfigFile() string {
	return filepath.Join(Config(), constant.App+".toml")
}
