package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	saved := CommitHash
	defer func() { CommitHash = saved }()

	CommitHash = "0123456789abcdef"
	info := Get()
	assert.Equal(t, "0123456", info.Short())
	assert.Contains(t, info.String(), "curate "+Version)
	assert.Contains(t, info.Platform, "/")
	assert.Equal(t, "curate/dev+0123456", info.UserAgent())

	CommitHash = ""
	assert.NotEmpty(t, Get().CommitHash)
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abc", Info{CommitHash: "abc"}.Short())
}

func TestUserAgent(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "v1.4.0", CommitHash: "deadbeefcafe"}, "curate/1.4.0"},
		{Info{Version: "0.2.0-rc.1"}, "curate/0.2.0-rc.1"},
		{Info{Version: "dev", CommitHash: "deadbeefcafe"}, "curate/dev+deadbee"},
		{Info{Version: "dev", CommitHash: "unknown"}, "curate/dev"},
		{Info{Version: "dev"}, "curate/dev"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.info.UserAgent(), tt.info.Version)
	}

	_, ok := Info{Version: "dev"}.Semver()
	assert.False(t, ok)
}
