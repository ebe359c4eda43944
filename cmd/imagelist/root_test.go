package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "imagelist", cmd.Use)

	for _, name := range []string{"preset", "base", "ext", "start", "end", "output"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, "o", cmd.Flags().Lookup("output").Shorthand)
	assert.Equal(t, ".jpeg", cmd.Flags().Lookup("ext").DefValue)
}

func TestImageList_Stdout(t *testing.T) {
	out, err := execute(t, "--base", "https://x/img", "--start", "3", "--end", "5")
	require.NoError(t, err)

	var urls []string
	require.NoError(t, json.Unmarshal([]byte(out), &urls))
	assert.Equal(t, []string{"https://x/img3.jpeg", "https://x/img4.jpeg", "https://x/img5.jpeg"}, urls)
}

func TestImageList_PresetWithOverride(t *testing.T) {
	out, err := execute(t, "--preset", "hero", "--end", "2")
	require.NoError(t, err)

	var urls []string
	require.NoError(t, json.Unmarshal([]byte(out), &urls))
	assert.Equal(t, []string{
		"https://wprs.my-hobby.space/wp-content/uploads/2025/11/dozzi_main1.jpeg",
		"https://wprs.my-hobby.space/wp-content/uploads/2025/11/dozzi_main2.jpeg",
	}, urls)
}

func TestImageList_GalleryPresetLength(t *testing.T) {
	out, err := execute(t, "--preset", "gallery")
	require.NoError(t, err)

	var urls []string
	require.NoError(t, json.Unmarshal([]byte(out), &urls))
	assert.Len(t, urls, 1092)
}

func TestImageList_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.json")
	_, err := execute(t, "--base", "https://x/a", "--end", "2", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var urls []string
	require.NoError(t, json.Unmarshal(data, &urls))
	assert.Len(t, urls, 2)
}

func TestImageList_Errors(t *testing.T) {
	_, err := execute(t, "--preset", "thumbs")
	assert.ErrorContains(t, err, "unknown preset")

	_, err = execute(t, "--end", "3")
	assert.Error(t, err, "a base URL is required")

	_, err = execute(t, "--base", "https://x/a", "--start", "5", "--end", "2")
	assert.Error(t, err)

	_, err = execute(t, "extra")
	assert.Error(t, err)
}
