package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheeze-hyeon/alog/internal/impact"
	"github.com/cheeze-hyeon/alog/internal/loyalty"
	"github.com/cheeze-hyeon/alog/internal/utils"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCmdWithInput(t, "", args...)
}

func runCmdWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestLevelsCmd_Through(t *testing.T) {
	t.Setenv("LEVEL_CAP", "62")

	out, err := runCmd(t, "levels", "--through", "4")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "LEVEL")
	assert.Contains(t, lines[1], "꼬마알맹")
	assert.Contains(t, lines[1], "50,000원")
	assert.Contains(t, lines[4], "150,000원")
}

func TestLevelsCmd_Grades(t *testing.T) {
	out, err := runCmd(t, "levels", "--grades")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[5]), "-"))
}

func TestSeedCmd_DryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products:\n  - name: 녹차\n    category: tea\n    price: 150\n"), 0o600))

	out, err := runCmd(t, "seed", "--file", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "1 products")
}

func TestSeedCmd_InvalidCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products:\n  - name: x\n    category: candles\n"), 0o600))

	_, err := runCmd(t, "seed", "--file", path, "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestStatsCmd_RequiresCustomer(t *testing.T) {
	_, err := runCmd(t, "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--customer")
}

func TestRenderStats(t *testing.T) {
	table := loyalty.NewTable()
	stats := impact.EnvironmentStats{
		RefillCount:        1,
		PlasticReductionG:  45,
		PlasticReductionKg: 0.045,
		CO2ReductionKg:     0.09,
		TreeReduction:      0.01,
	}

	var buf bytes.Buffer
	require.NoError(t, renderStats(&buf, stats, 2, table.Progress(50_000)))

	out := buf.String()
	assert.Contains(t, out, "Refills")
	assert.Contains(t, out, "45.0 g")
	assert.Contains(t, out, "50,000원")
	assert.Contains(t, out, "Lv.2")
}

func TestRenderStats_MaxLevel(t *testing.T) {
	table := loyalty.NewTable()

	var buf bytes.Buffer
	require.NoError(t, renderStats(&buf, impact.EnvironmentStats{}, 0, table.Progress(100_000_000)))
	assert.Contains(t, buf.String(), "max level reached")
}

func TestHashPasswordCmd(t *testing.T) {
	out, err := runCmdWithInput(t, "counter-secret\n", "hash-password")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.True(t, utils.CheckPassword(hash, "counter-secret"))
	assert.False(t, utils.CheckPassword(hash, "counter-secret\n"))
}

func TestHashPasswordCmd_EmptyInput(t *testing.T) {
	_, err := runCmdWithInput(t, "", "hash-password")
	require.Error(t, err)

	_, err = runCmdWithInput(t, "\n", "hash-password")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be empty")
}
