package ds18b20

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n72 01 4b 46 7f ff 0e 10 57 t=23125\n"

func writeDevice(t *testing.T, root, id, contents string) {
	t.Helper()
	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, slaveFile), []byte(contents), 0o644))
}

func TestNewMissingDevice(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 3; i++ {
		dev, err := New(root, "28-000000000000")
		assert.Nil(t, dev)
		assert.ErrorIs(t, err, ErrDeviceNotFound)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	}
}

func TestNewMissingSlaveFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "28-00000a1b2c3d"), 0o755))
	_, err := New(root, "28-00000a1b2c3d")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestTemperature(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "28-00000a1b2c3d", sample)

	dev, err := New(root, "28-00000a1b2c3d")
	require.NoError(t, err)
	assert.Equal(t, "28-00000a1b2c3d", dev.ID())

	temp, err := dev.Temperature()
	require.NoError(t, err)
	assert.InDelta(t, 23.125, temp.Celsius(), 1e-9)
}

func TestTemperatureRereadsFile(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "28-1", "t=1000")
	dev, err := New(root, "28-1")
	require.NoError(t, err)

	temp, err := dev.Temperature()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, temp.Celsius(), 1e-9)

	writeDevice(t, root, "28-1", "t=-1500\n")
	temp, err = dev.Temperature()
	require.NoError(t, err)
	assert.InDelta(t, -1.5, temp.Celsius(), 1e-9)
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"... t=23625", 23.625},
		{"crc=57 YES\nt=0\n", 0},
		{"t=-10062", -10.062},
		{"a=1 b=2 t=85000\n", 85},
		{"t=  4500  \n", 4.5},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parse(tt.raw)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got.Celsius(), 1e-9)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	for _, raw := range []string{"", "23625", "72 01 4b 46 : crc=57 YES\n72 01 4b 46 t=\n", "t=abc", "t=NaN"} {
		t.Run(raw, func(t *testing.T) {
			_, err := parse(raw)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}

	_, err := parse("t=12x")
	var numErr *strconv.NumError
	assert.ErrorAs(t, err, &numErr)
}

func TestTemperatureReadError(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "28-1", sample)
	dev, err := New(root, "28-1")
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "28-1")))
	_, err = dev.Temperature()
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotErrorIs(t, err, ErrMalformed)
}

func TestList(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "28-0000000000b2", sample)
	writeDevice(t, root, "28-0000000000a1", sample)
	require.NoError(t, os.Mkdir(filepath.Join(root, "w1_bus_master1"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "10-000802b4ba0e"), 0o755))

	ids, err := List(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"28-0000000000a1", "28-0000000000b2"}, ids)
}

func TestListMissingRoot(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestTemperatureChannel(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "28-1", sample)
	dev, err := New(root, "28-1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	c, fn := TemperatureChannel(ctx, dev, time.Millisecond)
	errc := make(chan error, 1)
	go func() { errc <- fn() }()

	p := <-c
	assert.Equal(t, "28-1", p.Name)
	assert.InDelta(t, 23.125, p.Temperature.Celsius(), 1e-9)

	cancel()
	assert.NoError(t, <-errc)
}

func TestTemperatureChannelError(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "28-1", "garbage")
	dev, err := New(root, "28-1")
	require.NoError(t, err)

	_, fn := TemperatureChannel(context.Background(), dev, time.Millisecond)
	assert.ErrorIs(t, fn(), ErrMalformed)
}
