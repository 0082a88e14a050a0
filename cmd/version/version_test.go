package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	defer func() { Version, Commit, Date = oldVersion, oldCommit, oldDate }()

	Version = "v1.2.0"
	Commit = "0123456789abcdef0123"
	Date = "2026-10-01T12:00:00Z"

	info := Get()
	assert.Equal(t, "v1.2.0", info.Version)
	assert.Equal(t, "0123456789ab", info.Commit)
	assert.Equal(t, "2026-10-01T12:00:00Z", info.Date)
	assert.Equal(t, "https://api.goingelectric.de", info.GoingElectric)
	assert.Equal(t, "https://api.chargeprice.app", info.Chargeprice)
	assert.Equal(t, "chargeprice-map v1.2.0 (0123456789ab)", info.String())

	out := info.Table().String()
	assert.Contains(t, out, "GoingElectric")
	assert.Contains(t, out, "https://api.chargeprice.app")
}

func TestGet_NoStamp(t *testing.T) {
	oldCommit, oldDate := Commit, Date
	defer func() { Commit, Date = oldCommit, oldDate }()
	Commit, Date = "", ""

	info := Get()
	// test binaries carry no vcs stamp
	assert.Equal(t, "unknown", info.Commit)
	assert.Equal(t, "unknown", info.Date)
}
