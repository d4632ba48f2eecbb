package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"regexp"
	"strings"

	"github.com/golobby/config/v3"
	"github.com/golobby/config/v3/pkg/feeder"
)

type Config struct {
	Kodiscreen KodiscreenConfig
	Pushover   PushoverConfig
}

type KodiscreenConfig struct {
	Port                  int    `env:"PORT"`
	DbPath                string `env:"DB_PATH"`
	LogLevel              string `env:"LOG_LEVEL"`
	CacheDir              string `env:"CACHE_DIR"`
	CacheTTLHours         int    `env:"CACHE_TTL_HOURS"`
	MusicRoot             string `env:"MUSIC_ROOT"`
	BackgroundJobsEnabled bool   `env:"BACKGROUND_JOBS_ENABLED"`
}

type PushoverConfig struct {
	Recipient string `env:"PUSHOVER_RECIPIENT"`
	Token     string `env:"PUSHOVER_TOKEN"`
}

// Load feeds the config from a .env file (when present) and the environment,
// on top of workable defaults.
func Load() (*Config, error) {
	c := Config{
		Kodiscreen: KodiscreenConfig{
			Port:                  6001,
			DbPath:                "kodiscreen.db",
			LogLevel:              "info",
			CacheDir:              os.TempDir(),
			CacheTTLHours:         24,
			BackgroundJobsEnabled: true,
		},
	}

	loader := config.New()
	if _, err := os.Stat(".env"); err == nil {
		loader.AddFeeder(feeder.DotEnv{Path: ".env"})
	}
	loader.AddFeeder(feeder.Env{})
	loader.AddStruct(&c)

	if err := loader.Feed(); err != nil {
		return nil, fmt.Errorf("failed to feed config: %w", err)
	}
	return &c, nil
}

func (c *Config) GetLogLevel() slog.Leveler {
	logLevel := strings.ToLower(c.Kodiscreen.LogLevel)
	if logLevel == "error" {
		return slog.LevelError
	}
	if logLevel == "warning" {
		return slog.LevelWarn
	}
	if logLevel == "info" {
		return slog.LevelInfo
	}
	if logLevel == "debug" {
		return slog.LevelDebug
	}
	// default to info if unknown
	slog.With(slog.String("log_level", logLevel)).Info("Received invalid log level. Defaulting to INFO.")
	return slog.LevelInfo
}

// KodiServer is one configured upstream player. Auth is optional; IP is
// extracted from the host for display sorting.
type KodiServer struct {
	ID       int    `json:"id"`
	Host     string `json:"host"`
	Username string `json:"-"`
	Password string `json:"-"`
	IP       string `json:"ip"`
}

func (s KodiServer) HasAuth() bool {
	return s.Username != ""
}

var ipPattern = regexp.MustCompile(`(\d+\.\d+\.\d+\.\d+)`)

func extractIP(host string) string {
	if m := ipPattern.FindString(host); m != "" {
		return m
	}
	return host
}

// ParseKodiServers reads KODI_HOST_1, KODI_USERNAME_1, KODI_PASSWORD_1 and so
// on from the environment until the first gap. A bare KODI_HOST (plus
// KODI_USER/KODI_USERNAME, KODI_PASS/KODI_PASSWORD) is honoured as a legacy
// single-server setup.
func ParseKodiServers() map[int]KodiServer {
	servers := map[int]KodiServer{}
	for i := 1; ; i++ {
		host := os.Getenv(fmt.Sprintf("KODI_HOST_%d", i))
		if host == "" {
			break
		}
		servers[i] = KodiServer{
			ID:       i,
			Host:     strings.TrimRight(host, "/"),
			Username: os.Getenv(fmt.Sprintf("KODI_USERNAME_%d", i)),
			Password: os.Getenv(fmt.Sprintf("KODI_PASSWORD_%d", i)),
			IP:       extractIP(host),
		}
	}

	if len(servers) == 0 {
		if host := os.Getenv("KODI_HOST"); host != "" {
			username := os.Getenv("KODI_USER")
			if username == "" {
				username = os.Getenv("KODI_USERNAME")
			}
			password := os.Getenv("KODI_PASS")
			if password == "" {
				password = os.Getenv("KODI_PASSWORD")
			}
			servers[1] = KodiServer{
				ID:       1,
				Host:     strings.TrimRight(host, "/"),
				Username: username,
				Password: password,
				IP:       extractIP(host),
			}
		}
	}

	return servers
}

// LessByIP orders servers numerically by address so the picker renders
// 10.0.0.2 before 10.0.0.10.
func LessByIP(a, b KodiServer) bool {
	ipA := net.ParseIP(a.IP)
	ipB := net.ParseIP(b.IP)
	if ipA != nil && ipB != nil {
		return string(ipA.To16()) < string(ipB.To16())
	}
	if (ipA != nil) != (ipB != nil) {
		return ipA != nil
	}
	return a.IP < b.IP
}
