package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	testCases := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "absolute", path: "/etc/pagesdrop/config.yaml", want: "/etc/pagesdrop/config.yaml"},
		{name: "redundant separators", path: "/tmp//site/./config.yaml", want: "/tmp/site/config.yaml"},
		{name: "relative", path: "config.yaml", want: filepath.Join(wd, "config.yaml")},
		{name: "inner parent collapses", path: "/tmp/a/../config.yaml", want: "/tmp/config.yaml"},
		{name: "climbs out", path: "../config.yaml", wantErr: true},
		{name: "empty", path: "  ", wantErr: true},
		{name: "dots in file name", path: "/tmp/config..yaml", want: "/tmp/config..yaml"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := CleanPath(testCase.path)
			if testCase.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}
