// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/mediakit/download"
	"github.com/ik5/mediakit/formats/wav"
	"github.com/ik5/mediakit/internal/audiotest"
	"github.com/stretchr/testify/require"
)

// setup writes assets and a config pointing at them, and returns the
// download directory.
func setup(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	assets := filepath.Join(dir, "assets")
	out := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(assets, 0o755))

	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, image.NewGray(image.Rect(0, 0, 16, 9)), nil))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "bg.jpg"), jpg.Bytes(), 0o644))

	tone := audiotest.WAV16(44100, 2, audiotest.Sine16(44100, 2, 44100, 440, 0.3))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "tone.wav"), tone, 0o644))

	conf := filepath.Join(dir, "mediakit.yaml")
	yaml := fmt.Sprintf("fetch:\n  root: %q\ndownload:\n  dir: %q\n", assets, out)
	require.NoError(t, os.WriteFile(conf, []byte(yaml), 0o644))

	return conf, out
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestImageCommand(t *testing.T) {
	conf, _ := setup(t)

	out, err := run(t, "--config", conf, "image", "bg.jpg")
	require.NoError(t, err)
	require.Contains(t, out, "bg.jpg: jpeg 16x9")
}

func TestImageCommandMissing(t *testing.T) {
	conf, _ := setup(t)

	_, err := run(t, "--config", conf, "image", "nope.png")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDownloadCommand(t *testing.T) {
	conf, dl := setup(t)

	_, err := run(t, "--config", conf, "download", "hello.txt", "hello, world")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dl, "hello.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello, world", string(data))
}

func TestDownloadCommandInvalidName(t *testing.T) {
	conf, dl := setup(t)

	out, err := run(t, "--config", conf, "download", "../escape.txt", "nope")
	require.ErrorIs(t, err, download.ErrInvalidFilename)
	require.NotContains(t, out, "escape.txt\n")
	require.NoFileExists(t, filepath.Join(dl, "..", "escape.txt"))
}

func TestExportCommand(t *testing.T) {
	conf, dl := setup(t)

	out, err := run(t, "--config", conf, "export", "--rate", "8000", "tone.wav", "tone8k.wav")
	require.NoError(t, err)
	require.Contains(t, out, "(wav, 8000 Hz)")

	data, err := os.ReadFile(filepath.Join(dl, "tone8k.wav"))
	require.NoError(t, err)

	src, err := wav.Decoder{}.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 8000, src.SampleRate())
	require.Equal(t, 1, src.Channels())

	// about one second of 16-bit mono
	require.InDelta(t, 44+8000*2, len(data), 200)
}

func TestBadConfig(t *testing.T) {
	setup(t)

	_, err := run(t, "--config", "missing.yaml", "image", "bg.jpg")
	require.Error(t, err)
}

func TestTraceFlag(t *testing.T) {
	conf, _ := setup(t)
	t.Cleanup(func() { tracing = false })

	out, err := run(t, "--config", conf, "--trace", "image", "bg.jpg")
	require.NoError(t, err)
	// spans go to the same writer as errors
	require.Contains(t, out, `"Name": "fetch"`)
}

func TestConfigInitAndShow(t *testing.T) {
	setup(t)

	out, err := run(t, "config", "init", "fresh.yaml")
	require.NoError(t, err)
	require.Contains(t, out, "fresh.yaml")

	_, err = run(t, "config", "init", "fresh.yaml")
	require.ErrorIs(t, err, os.ErrExist)

	out, err = run(t, "--config", "fresh.yaml", "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "sample_rate: 44100")
	require.Contains(t, out, "buffer_size: 50ms")
}
