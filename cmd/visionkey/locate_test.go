package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuanhai0913/Vision-Key/internal/geometry"
	"github.com/xuanhai0913/Vision-Key/internal/testutil"
)

func TestLocateCommand(t *testing.T) {
	tmpDir := t.TempDir()
	setConfigFile(t, testutil.SetupTestConfig(t, tmpDir))
	observations := testutil.WriteObservations(t, filepath.Join(tmpDir, "observations.yml"), testutil.QuizObservations())

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "Retina capture of a region",
			args: []string{"locate", "b", "--observations", observations, "--image", "2000x1200", "--rect", "100,50,1000,600"},
			want: "350,320\n",
		},
		{
			name: "rect defaults to the image",
			args: []string{"locate", "A", "--observations", observations, "--image", "1000x600"},
			want: "250,180\n",
		},
		{
			name: "letter not on screen",
			args: []string{"locate", "E", "--observations", observations, "--image", "1000x600"},
			want: "answer E not found in 5 observations\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCommand(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocateCommand_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	setConfigFile(t, testutil.SetupTestConfig(t, tmpDir))
	observations := testutil.WriteObservations(t, filepath.Join(tmpDir, "observations.yml"), testutil.QuizObservations())

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing observations file",
			args:    []string{"locate", "A", "--observations", filepath.Join(tmpDir, "missing.yml"), "--image", "10x10"},
			wantErr: "os.ReadFile",
		},
		{
			name:    "bad image size",
			args:    []string{"locate", "A", "--observations", observations, "--image", "wide"},
			wantErr: "WIDTHxHEIGHT",
		},
		{
			name:    "bad rect",
			args:    []string{"locate", "A", "--observations", observations, "--image", "10x10", "--rect", "1,2,3"},
			wantErr: "x,y,width,height",
		},
		{
			name:    "required flags",
			args:    []string{"locate", "A"},
			wantErr: "required flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, tt.args...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    geometry.Size
		wantErr bool
	}{
		{name: "lowercase separator", value: "2880x1800", want: geometry.Size{Width: 2880, Height: 1800}},
		{name: "uppercase separator", value: "640X480", want: geometry.Size{Width: 640, Height: 480}},
		{name: "no separator", value: "640", wantErr: true},
		{name: "not a number", value: "ax480", wantErr: true},
		{name: "zero height", value: "640x0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSize(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
