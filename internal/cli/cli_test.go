package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/stockroom/internal/ui"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// testEnv is an isolated config and data directory pair.
type testEnv struct {
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("STOCKROOM_CONFIG_DIR", "")
	t.Setenv("STOCKROOM_DATA_DIR", "")
	t.Setenv("STOCKROOM_LOG_LEVEL", "error")
	dir := t.TempDir()
	return &testEnv{
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
	}
}

type result struct {
	stdout string
	stderr string
	code   int
}

// run executes the root command with the environment's directories.
func (e *testEnv) run(t *testing.T, args ...string) result {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	args = append(args, "--config-dir="+e.configDir, "--data-dir="+e.dataDir)
	code := run(root, args, &errOut)
	return result{stdout: out.String(), stderr: errOut.String(), code: code}
}

// mustRun runs args and fails the test unless the exit code is 0.
func (e *testEnv) mustRun(t *testing.T, args ...string) result {
	t.Helper()
	res := e.run(t, args...)
	require.Equal(t, exitSuccess, res.code, "stdout: %s\nstderr: %s", res.stdout, res.stderr)
	return res
}

func (e *testEnv) listJSON(t *testing.T, args ...string) []types.Record {
	t.Helper()
	res := e.mustRun(t, append([]string{"list", "--json"}, args...)...)
	var records []types.Record
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &records))
	return records
}

func addArduinoAndSensor(t *testing.T, e *testEnv) {
	t.Helper()
	e.mustRun(t, "add", "--name", "Arduino Uno", "--category", "Electronics", "--quantity", "10", "--location", "Shelf A", "--date", "2025-01-15")
	e.mustRun(t, "add", "--name", "Sensor HC-SR04", "--category", "Sensor", "--quantity", "3", "--location", "Shelf B", "--date", "2025-02-02")
}

func TestVersion(t *testing.T) {
	e := newTestEnv(t)
	res := e.mustRun(t, "version")
	assert.Contains(t, res.stdout, "stockroom v"+Version)
	assert.Contains(t, res.stdout, modulePath)
}

func TestInit(t *testing.T) {
	e := newTestEnv(t)
	res := e.mustRun(t, "init")
	assert.Contains(t, res.stdout, "Stockroom initialized")

	_, err := os.Stat(filepath.Join(e.dataDir, types.DefaultDBFile))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	var cfg configFile
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, types.BackendSQLite, cfg.Backend)
	assert.Equal(t, e.dataDir, cfg.DataDir)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, ";", cfg.CSVDelimiter)
	assert.Equal(t, "reporte.csv", cfg.ExportPath)

	t.Run("second init keeps config", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte("backend: sqlite\nlow_stock_threshold: 9\n"), 0o644))
		res := e.mustRun(t, "init")
		assert.NotContains(t, res.stdout, "Wrote")
		data, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "low_stock_threshold: 9")
	})
}

func TestAddAndList(t *testing.T) {
	e := newTestEnv(t)
	addArduinoAndSensor(t, e)

	records := e.listJSON(t)
	require.Len(t, records, 2)
	assert.Equal(t, "Sensor HC-SR04", records[0].Name, "newest first")
	assert.Equal(t, "Arduino Uno", records[1].Name)

	asc := e.listJSON(t, "--asc")
	assert.Equal(t, "Arduino Uno", asc[0].Name)

	res := e.mustRun(t, "list")
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "Sensor HC-SR04")
	assert.Contains(t, lines[1], ui.IconLow)
	assert.NotContains(t, lines[2], ui.IconLow)

	assert.Contains(t, res.stderr, "Sensor HC-SR04 (ID 2) - 3", "warning on open")
}

func TestListSearch(t *testing.T) {
	e := newTestEnv(t)
	addArduinoAndSensor(t, e)

	got := e.listJSON(t, "--search", "hc-sr")
	require.Len(t, got, 1)
	assert.Equal(t, "Sensor HC-SR04", got[0].Name)

	assert.Empty(t, e.listJSON(t, "--search", "raspberry"))
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing name", []string{"add", "--category", "Sensor"}},
		{"missing category", []string{"add", "--name", "LED"}},
		{"negative quantity", []string{"add", "--name", "LED", "--category", "Electronics", "--quantity", "-1"}},
		{"quantity too large", []string{"add", "--name", "LED", "--category", "Electronics", "--quantity", "1000001"}},
		{"bad date", []string{"add", "--name", "LED", "--category", "Electronics", "--date", "15/01/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			res := e.run(t, tt.args...)
			assert.Equal(t, exitUserError, res.code)
			assert.Contains(t, res.stderr, "Error:")
		})
	}
}

func TestAddDefaultsDateToToday(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "add", "--name", "LED", "--category", "Electronics", "--quantity", "20")
	records := e.listJSON(t)
	require.Len(t, records, 1)
	assert.Len(t, records[0].AcquisitionDate, len(types.DateLayout))
}

func TestShow(t *testing.T) {
	e := newTestEnv(t)
	addArduinoAndSensor(t, e)

	res := e.mustRun(t, "show", "1")
	assert.Contains(t, res.stdout, "Name:     Arduino Uno")
	assert.Contains(t, res.stdout, "Quantity: 10")

	res = e.run(t, "show", "99")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, types.ErrNotFound.Error())

	res = e.run(t, "show", "abc")
	assert.Equal(t, exitUserError, res.code)
}

func TestSetQty(t *testing.T) {
	e := newTestEnv(t)
	addArduinoAndSensor(t, e)

	e.mustRun(t, "set-qty", "2", "7")
	e.mustRun(t, "set-qty", "2", "7")

	res := e.mustRun(t, "show", "2", "--json")
	var r types.Record
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &r))
	assert.Equal(t, 7, r.Quantity)
	assert.Equal(t, "Shelf B", r.Location)

	assert.Equal(t, exitUserError, e.run(t, "set-qty", "42", "1").code)
	assert.Equal(t, exitUserError, e.run(t, "set-qty", "2", "lots").code)
	assert.Equal(t, exitUserError, e.run(t, "set-qty", "2", "-3").code)
}

func TestUpdate(t *testing.T) {
	e := newTestEnv(t)
	addArduinoAndSensor(t, e)

	e.mustRun(t, "update", "1", "--location", "Drawer 4", "--quantity", "12")
	res := e.mustRun(t, "show", "1", "--json")
	var r types.Record
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &r))
	assert.Equal(t, types.Record{
		ID: 1, Name: "Arduino Uno", Category: "Electronics", Quantity: 12,
		Location: "Drawer 4", AcquisitionDate: "2025-01-15",
	}, r)

	assert.Equal(t, exitUserError, e.run(t, "update", "1", "--name", "").code)
	assert.Equal(t, exitUserError, e.run(t, "update", "77", "--name", "x").code)
}

func TestDelete(t *testing.T) {
	e := newTestEnv(t)
	addArduinoAndSensor(t, e)

	e.mustRun(t, "delete", "1")
	assert.Equal(t, exitUserError, e.run(t, "show", "1").code)
	assert.Equal(t, exitUserError, e.run(t, "delete", "1").code)

	records := e.listJSON(t)
	require.Len(t, records, 1)
	assert.Equal(t, int64(2), records[0].ID)

	e.mustRun(t, "add", "--name", "LED", "--category", "Electronics", "--quantity", "20")
	ids := map[int64]bool{}
	for _, r := range e.listJSON(t) {
		ids[r.ID] = true
	}
	assert.False(t, ids[1], "deleted id is not reused")
}

func TestExport(t *testing.T) {
	e := newTestEnv(t)
	addArduinoAndSensor(t, e)

	path := filepath.Join(t.TempDir(), "out.csv")
	res := e.mustRun(t, "export", path)
	assert.Contains(t, res.stdout, "Exported 2 record(s)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID;Nombre;Tipo;Cantidad;Ubicacion;FechaAdquisicion", lines[0])
	assert.Equal(t, `1;"Arduino Uno";"Electronics";10;"Shelf A";"2025-01-15"`, lines[1])
	assert.Equal(t, `2;"Sensor HC-SR04";"Sensor";3;"Shelf B";"2025-02-02"`, lines[2])

	t.Run("default path in data dir", func(t *testing.T) {
		e.mustRun(t, "export")
		_, err := os.Stat(filepath.Join(e.dataDir, "reporte.csv"))
		assert.NoError(t, err)
	})

	t.Run("comma delimiter", func(t *testing.T) {
		e.mustRun(t, "export", path, "--delimiter", ",")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "ID,Nombre,"))
	})

	t.Run("unwritable path", func(t *testing.T) {
		res := e.run(t, "export", filepath.Join(t.TempDir(), "missing", "x.csv"))
		assert.Equal(t, exitSysError, res.code)
	})

	t.Run("bad delimiter", func(t *testing.T) {
		assert.Equal(t, exitUserError, e.run(t, "export", path, "--delimiter", `"`).code)
	})
}

func TestImport(t *testing.T) {
	e := newTestEnv(t)
	in := filepath.Join(t.TempDir(), "in.csv")
	content := "ID;Nombre;Tipo;Cantidad;Ubicacion;FechaAdquisicion\n" +
		`7;"Arduino Uno";"Electronics";10;"Shelf A";"2025-01-15"` + "\n" +
		`8;"Cable ""USB-C""";"Cables";2;"Box";""` + "\n"
	require.NoError(t, os.WriteFile(in, []byte(content), 0o644))

	res := e.mustRun(t, "import", in)
	assert.Contains(t, res.stdout, "Imported 2 record(s)")

	records := e.listJSON(t, "--asc")
	require.Len(t, records, 2)
	assert.Equal(t, `Cable "USB-C"`, records[1].Name)
	assert.Equal(t, int64(1), records[0].ID, "ids come from the store")

	t.Run("bad rows are reported", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.csv")
		require.NoError(t, os.WriteFile(bad, []byte(`1;"";"x";1;"";""`+"\n"+`2;"LED";"Electronics";9;"";""`+"\n"), 0o644))
		res := e.run(t, "import", bad)
		assert.Equal(t, exitUserError, res.code)
		assert.Contains(t, res.stderr, "line 1")
		assert.Contains(t, res.stdout, "Imported 1 record(s)")
	})

	t.Run("input rules of add apply", func(t *testing.T) {
		before := len(e.listJSON(t))
		bad := filepath.Join(t.TempDir(), "rules.csv")
		rows := "ID;Nombre;Tipo;Cantidad;Ubicacion;FechaAdquisicion\n" +
			`1;"LED";"E";-7;"A";""` + "\n" +
			`2;"Servo";"Actuator";3;"B";"not-a-date"` + "\n" +
			`3;"Relay";"Electronics";1000001;"C";""` + "\n"
		require.NoError(t, os.WriteFile(bad, []byte(rows), 0o644))

		res := e.run(t, "import", bad)
		assert.Equal(t, exitUserError, res.code)
		assert.Contains(t, res.stderr, "skipped: line 2: quantity -7 out of range")
		assert.Contains(t, res.stderr, `skipped: line 3: date "not-a-date"`)
		assert.Contains(t, res.stderr, "skipped: line 4: quantity 1000001 out of range")
		assert.Contains(t, res.stdout, "Imported 0 record(s)")
		assert.Len(t, e.listJSON(t), before)
	})

	t.Run("byte order mark before the header", func(t *testing.T) {
		bom := filepath.Join(t.TempDir(), "bom.csv")
		require.NoError(t, os.WriteFile(bom, []byte("\ufeff"+content), 0o644))
		res := e.mustRun(t, "import", bom)
		assert.Contains(t, res.stdout, "Imported 2 record(s)")
		assert.NotContains(t, res.stderr, "skipped")
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Equal(t, exitUserError, e.run(t, "import", filepath.Join(t.TempDir(), "nope.csv")).code)
	})
}

func TestLowStock(t *testing.T) {
	e := newTestEnv(t)
	addArduinoAndSensor(t, e)

	res := e.mustRun(t, "lowstock")
	assert.Equal(t, "Sensor HC-SR04 (ID 2) - 3\n", res.stdout)
	assert.NotContains(t, res.stderr, "Low stock", "no duplicate warning on open")

	res = e.mustRun(t, "lowstock", "--threshold", "3")
	assert.Contains(t, res.stdout, "No records below 3.")

	res = e.mustRun(t, "lowstock", "--threshold", "11", "--json")
	var below []types.Record
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &below))
	assert.Len(t, below, 2)
}

func TestLowStockThresholdFromConfig(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"),
		[]byte("backend: sqlite\nlow_stock_threshold: 20\nwarn_on_open: false\n"), 0o644))
	addArduinoAndSensor(t, e)

	res := e.mustRun(t, "lowstock")
	assert.Contains(t, res.stdout, "Arduino Uno (ID 1) - 10")

	res = e.mustRun(t, "list")
	assert.NotContains(t, res.stderr, "Low stock")
}

func TestSeed(t *testing.T) {
	e := newTestEnv(t)
	res := e.mustRun(t, "seed")
	assert.Contains(t, res.stdout, "Loaded 6 sample record(s)")
	e.mustRun(t, "seed")
	assert.Len(t, e.listJSON(t), 12)

	e.mustRun(t, "seed", "--restore")
	records := e.listJSON(t, "--asc")
	require.Len(t, records, 6)
	assert.Greater(t, records[0].ID, int64(12))
}

func TestSchedule(t *testing.T) {
	e := newTestEnv(t)
	addArduinoAndSensor(t, e)

	out := filepath.Join(t.TempDir(), "tick.csv")
	res := e.mustRun(t, "schedule", "--once", "--out", out)
	assert.Contains(t, res.stdout, out)
	assert.Contains(t, res.stderr, "Sensor HC-SR04 (ID 2) - 3")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))

	assert.Equal(t, exitUserError, e.run(t, "schedule", "--cron", "never").code)
}

func TestOpenFailureIsSystemError(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(e.dataDir), 0o755))
	require.NoError(t, os.WriteFile(e.dataDir, []byte("not a dir"), 0o644))

	res := e.run(t, "list")
	assert.Equal(t, exitSysError, res.code)
	assert.Contains(t, res.stderr, types.ErrOpenFailed.Error())
}

func TestInvalidConfigIsUserError(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte("backend: postgres\n"), 0o644))

	res := e.run(t, "list")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, types.ErrBackendUnknown.Error())
}

func TestUnknownCommand(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, exitUserError, e.run(t, "frobnicate").code)
}
