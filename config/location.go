package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/ytgrab-cli/ytgrab/key"
)

// Location resolves the configured scheduling time zone. An empty value or "Local" yields time.Local.
func Location() (*time.Location, error) {
	name := strings.TrimSpace(viper.GetString(key.ScheduleTimezone))
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}

// Timeout is the per-call deadline for service requests.
func Timeout() time.Duration {
	secs := viper.GetInt(key.APITimeout)
	if secs <= 0 {
		return time.Minute
	}
	return time.Duration(secs) * time.Second
}
