package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKodiServers_Numbered(t *testing.T) {
	t.Setenv("KODI_HOST_1", "http://10.0.0.2:8080/")
	t.Setenv("KODI_USERNAME_1", "kodi")
	t.Setenv("KODI_PASSWORD_1", "hunter2")
	t.Setenv("KODI_HOST_2", "http://10.0.0.3:8080")

	servers := ParseKodiServers()

	assert.Len(t, servers, 2)
	assert.Equal(t, "http://10.0.0.2:8080", servers[1].Host)
	assert.Equal(t, "kodi", servers[1].Username)
	assert.True(t, servers[1].HasAuth())
	assert.Equal(t, "10.0.0.2", servers[1].IP)
	assert.False(t, servers[2].HasAuth())
}

func TestParseKodiServers_StopsAtGap(t *testing.T) {
	t.Setenv("KODI_HOST_1", "http://10.0.0.2:8080")
	t.Setenv("KODI_HOST_3", "http://10.0.0.4:8080")

	servers := ParseKodiServers()

	assert.Len(t, servers, 1)
}

func TestParseKodiServers_LegacySingleServer(t *testing.T) {
	t.Setenv("KODI_HOST", "http://10.0.0.9:8080")
	t.Setenv("KODI_USER", "kodi")
	t.Setenv("KODI_PASS", "hunter2")

	servers := ParseKodiServers()

	assert.Len(t, servers, 1)
	assert.Equal(t, "http://10.0.0.9:8080", servers[1].Host)
	assert.Equal(t, "kodi", servers[1].Username)
	assert.Equal(t, "hunter2", servers[1].Password)
}

func TestParseKodiServers_LegacyLongFormNames(t *testing.T) {
	t.Setenv("KODI_HOST", "http://10.0.0.9:8080")
	t.Setenv("KODI_USERNAME", "kodi")
	t.Setenv("KODI_PASSWORD", "hunter2")

	servers := ParseKodiServers()

	assert.Equal(t, "kodi", servers[1].Username)
	assert.Equal(t, "hunter2", servers[1].Password)
}

func TestParseKodiServers_Empty(t *testing.T) {
	servers := ParseKodiServers()

	assert.Empty(t, servers)
}

func TestExtractIP(t *testing.T) {
	assert.Equal(t, "10.0.0.2", extractIP("http://10.0.0.2:8080"))
	assert.Equal(t, "http://kodi.local:8080", extractIP("http://kodi.local:8080"))
}

func TestLessByIP_NumericOrder(t *testing.T) {
	a := KodiServer{IP: "10.0.0.2"}
	b := KodiServer{IP: "10.0.0.10"}

	assert.True(t, LessByIP(a, b))
	assert.False(t, LessByIP(b, a))
}

func TestLessByIP_IPsBeforeNames(t *testing.T) {
	ip := KodiServer{IP: "10.0.0.2"}
	name := KodiServer{IP: "kodi.local"}

	assert.True(t, LessByIP(ip, name))
	assert.False(t, LessByIP(name, ip))
}

func TestGetLogLevel(t *testing.T) {
	c := Config{Kodiscreen: KodiscreenConfig{LogLevel: "debug"}}
	assert.Equal(t, "DEBUG", c.GetLogLevel().Level().String())

	c.Kodiscreen.LogLevel = "nonsense"
	assert.Equal(t, "INFO", c.GetLogLevel().Level().String())
}
