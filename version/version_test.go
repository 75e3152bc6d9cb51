package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, version, v.Version)
	assert.Equal(t, prerelease, v.Prerelease)
}

func TestGetVersion_BuildInfo(t *testing.T) {
	stamped := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs", Value: "git"},
			{Key: "vcs.revision", Value: "f00dcafe"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		}}, true
	}
	unavailable := func() (*debug.BuildInfo, bool) {
		return nil, false
	}

	testCases := []struct {
		name           string
		read           func() (*debug.BuildInfo, bool)
		gitCommit      string
		buildDate      string
		expectRevision string
		expectDate     string
	}{
		{
			name:           "Test VCS stamp fills empty fields",
			read:           stamped,
			expectRevision: "f00dcafe",
			expectDate:     "2026-01-02T03:04:05Z",
		},
		{
			name:           "Test ldflags win over VCS stamp",
			read:           stamped,
			gitCommit:      "abc123",
			buildDate:      "2024-01-01",
			expectRevision: "abc123",
			expectDate:     "2024-01-01",
		},
		{
			name:           "Test partial ldflags",
			read:           stamped,
			gitCommit:      "abc123",
			expectRevision: "abc123",
			expectDate:     "2026-01-02T03:04:05Z",
		},
		{
			name: "Test no build info",
			read: unavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			origRead, origCommit, origDate := readBuildInfo, gitCommit, buildDate
			t.Cleanup(func() {
				readBuildInfo, gitCommit, buildDate = origRead, origCommit, origDate
			})
			readBuildInfo, gitCommit, buildDate = tc.read, tc.gitCommit, tc.buildDate

			v := GetVersion()
			assert.Equal(t, tc.expectRevision, v.Revision)
			assert.Equal(t, tc.expectDate, v.BuildDate)
		})
	}
}

func TestVersion_FullVersionNumber(t *testing.T) {
	testCases := []struct {
		name   string
		v      Version
		rev    bool
		expect string
	}{
		{
			name:   "Test only Version",
			v:      Version{Version: "0.0.0"},
			expect: "sanityze v0.0.0",
		},
		{
			name:   "Test Prerelease",
			v:      Version{Version: "0.0.0", Prerelease: "test"},
			expect: "sanityze v0.0.0-test",
		},
		{
			name:   "Test Metadata",
			v:      Version{Version: "0.0.0", Metadata: "buildinfo"},
			expect: "sanityze v0.0.0+buildinfo",
		},
		{
			name:   "Test Revision hidden",
			v:      Version{Version: "0.0.0", Revision: "abc123"},
			expect: "sanityze v0.0.0",
		},
		{
			name: "Test All",
			v: Version{
				Version:    "0.0.0",
				Prerelease: "test",
				Metadata:   "buildinfo",
				Revision:   "abc123",
				BuildDate:  "2024-01-01",
			},
			rev:    true,
			expect: "sanityze v0.0.0-test+buildinfo (abc123), built 2024-01-01",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.v.FullVersionNumber(tc.rev))
		})
	}
}
