package cli_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/grocery/internal/cli"
	"github.com/vladislavdragonenkov/grocery/internal/domain"
)

const fixturePath = "../storage/csvfile/testdata/orders.csv"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "grocery version=")
}

func TestListCommand(t *testing.T) {
	out, err := run(t, "list", "--csv", fixturePath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 101, "header plus one line per order")
	assert.Contains(t, lines[0], "TOTAL")
	assert.Equal(t, []string{"1", "3", "107.19"}, strings.Fields(lines[1]))
}

func TestListCommand_JSON(t *testing.T) {
	out, err := run(t, "list", "--csv", fixturePath, "--json")
	require.NoError(t, err)

	var orders []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &orders))
	assert.Len(t, orders, 100)
	assert.Equal(t, "107.19", orders[0]["total"])
}

func TestFindCommand(t *testing.T) {
	out, err := run(t, "find", "1", "--csv", fixturePath)
	require.NoError(t, err)

	assert.Contains(t, out, "Order 1")
	assert.Contains(t, out, "Slivered Almonds")
	assert.Contains(t, out, "22.88")
	assert.Regexp(t, `Subtotal\s+99\.71`, out)
	assert.Regexp(t, `Tax\s+7\.48`, out)
	assert.Regexp(t, `Total\s+107\.19`, out)
}

func TestFindCommand_JSON(t *testing.T) {
	out, err := run(t, "find", "100", "--csv", fixturePath, "--json")
	require.NoError(t, err)

	var order domain.Order
	require.NoError(t, json.Unmarshal([]byte(out), &order))
	assert.Equal(t, int64(100), order.ID())
	assert.True(t, order.HasProduct("UnbleachedFlour"))
}

func TestFindCommand_Errors(t *testing.T) {
	_, err := run(t, "find", "101", "--csv", fixturePath)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Contains(t, err.Error(), "order 101 not found")

	_, err = run(t, "find", "abc", "--csv", fixturePath)
	assert.ErrorIs(t, err, domain.ErrInvalidOrderID)

	_, err = run(t, "find", "1", "--csv", "missing.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open orders file")
}

func TestConfigFlagErrors(t *testing.T) {
	_, err := run(t, "list", "--config", "does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")

	_, err = run(t, "list", "--csv", fixturePath, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestPublishCommand_RequiresBrokers(t *testing.T) {
	t.Setenv("GROCERY_KAFKA_BROKERS", "")
	_, err := run(t, "publish", "--csv", fixturePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka brokers are required")
}

func TestPostgresCommands_RequireDSN(t *testing.T) {
	t.Setenv("GROCERY_POSTGRES_DSN", "")

	_, err := run(t, "migrate", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres dsn is required")

	_, err = run(t, "import", "--csv", fixturePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres dsn is required")
}
