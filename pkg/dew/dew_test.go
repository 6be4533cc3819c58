package dew

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikesmitty/dew/pkg/combined"
	"github.com/mikesmitty/dew/pkg/ds18b20"
	"github.com/mikesmitty/dew/pkg/env"
	"github.com/mikesmitty/dew/pkg/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

// fakeDriver returns successive temperatures starting at 20°C, one degree
// apart, at a constant 50% humidity.
type fakeDriver struct {
	reads int
	err   error
}

func (f *fakeDriver) next() (physic.Temperature, physic.RelativeHumidity, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	t := units.Celsius(20 + float64(f.reads))
	f.reads++
	return t, units.Percent(50), nil
}

func (f *fakeDriver) Temperature() (physic.Temperature, error) {
	t, _, err := f.next()
	return t, err
}

func (f *fakeDriver) RelativeHumidity() (physic.RelativeHumidity, error) {
	_, h, err := f.next()
	return h, err
}

func (f *fakeDriver) Measurements() (physic.Temperature, physic.RelativeHumidity, error) {
	return f.next()
}

func writeProbe(t *testing.T, root, id, contents string) {
	t.Helper()
	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "w1_slave"), []byte(contents), 0o644))
}

func TestOpenProbesDiscovers(t *testing.T) {
	root := t.TempDir()
	writeProbe(t, root, "28-000000000001", "t=21000\n")
	writeProbe(t, root, "28-000000000002", "t=22000\n")

	devs, err := openProbes(root, nil)
	require.NoError(t, err)
	require.Len(t, devs, 2)
	assert.Equal(t, "28-000000000001", devs[0].ID())
}

func TestOpenProbesExplicit(t *testing.T) {
	root := t.TempDir()
	writeProbe(t, root, "28-000000000001", "t=21000\n")

	_, err := openProbes(root, []string{"28-000000000001", "28-00000000dead"})
	assert.ErrorIs(t, err, ds18b20.ErrDeviceNotFound)
}

func TestOpenProbesNoBus(t *testing.T) {
	devs, err := openProbes(filepath.Join(t.TempDir(), "missing"), nil)
	require.NoError(t, err)
	assert.Empty(t, devs)
}

func TestReadOnce(t *testing.T) {
	root := t.TempDir()
	writeProbe(t, root, "28-000000000001", "crc=01 YES\nt=23625\n")
	probes, err := openProbes(root, nil)
	require.NoError(t, err)

	s := &sensors{
		probes:   probes,
		combined: combined.NewWithDriver(&fakeDriver{}),
	}
	var out bytes.Buffer
	require.NoError(t, readOnce(&out, s))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "28-000000000001: 23.625°C", lines[0])
	assert.Contains(t, lines[1], "temperature: 20.000°C")
	assert.Contains(t, lines[1], "humidity: 50.00%")
	assert.Contains(t, lines[1], "dewpoint: 9.25")
}

func TestReadOnceError(t *testing.T) {
	errBus := errors.New("i2c: timeout")
	s := &sensors{combined: combined.NewWithDriver(&fakeDriver{err: errBus})}
	assert.ErrorIs(t, readOnce(&bytes.Buffer{}, s), errBus)
}

func TestSample(t *testing.T) {
	d := &fakeDriver{}
	var out bytes.Buffer
	require.NoError(t, sample(&out, combined.NewWithDriver(d), 3, 0))
	assert.Equal(t, 3, d.reads)

	text := out.String()
	assert.Contains(t, text, "temperature: n=3 mean=21.000°C")
	assert.Contains(t, text, "trend=+1.0000/sample")
	assert.Contains(t, text, "humidity: n=3 mean=50.000%")
}

func TestSampleInvalidCount(t *testing.T) {
	assert.Error(t, sample(&bytes.Buffer{}, combined.NewWithDriver(&fakeDriver{}), 0, 0))
}

func TestLogReadings(t *testing.T) {
	refCh := make(chan env.Env, 1)
	probeCh := make(chan env.Probe, 1)
	refCh <- env.Env{Temperature: units.Celsius(20)}
	probeCh <- env.Probe{Name: "rtd", Temperature: units.Celsius(4)}
	close(refCh)
	close(probeCh)
	assert.NoError(t, logReadings(refCh, probeCh)())
}
