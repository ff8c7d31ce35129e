package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSkippedIndexesStayEmpty(t *testing.T) {
	ps := cannedProbe("bash\n", 0, nil)

	cache := Build(context.Background(), ps, Options{SkipProcesses: true, SkipPackages: true}, discardLogger())

	require.NotNil(t, cache.Processes)
	require.NotNil(t, cache.Packages)
	assert.False(t, cache.Processes.Contains("bash"))
	assert.False(t, cache.Packages.Available("Debian package"))
}

func TestBuildProcessesOnly(t *testing.T) {
	ps := cannedProbe("bash\nsshd\n", 0, nil)

	cache := Build(context.Background(), ps, Options{SkipPackages: true}, discardLogger())

	assert.True(t, cache.Processes.Contains("sshd"))
	assert.Equal(t, 0, cache.Packages.Len())
}
