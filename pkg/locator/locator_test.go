package locator_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/logarc/logarc/pkg/locator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touchFile(t *testing.T, path string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, ioutil.WriteFile(path, []byte("x"), 0644))
}

func TestLocate(t *testing.T) {
	root, err := ioutil.TempDir("", "locator")
	require.NoError(t, err)
	defer os.RemoveAll(root)

	touchFile(t, filepath.Join(root, "www", "nginx_access.20240610"))
	touchFile(t, filepath.Join(root, "www", "nginx_access.20240610-03.gz"))
	touchFile(t, filepath.Join(root, "www", "nginx_access.20240609"))
	touchFile(t, filepath.Join(root, "intranet", "nginx_access.20240610"))

	date, _ := time.Parse("20060102", "20240610")

	paths, err := locator.Locate(root, date, "www")
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(root, "www", "nginx_access.20240610"), paths[0])
	assert.Equal(t, filepath.Join(root, "www", "nginx_access.20240610-03.gz"), paths[1])
}

func TestLocateEmptyDay(t *testing.T) {
	root, err := ioutil.TempDir("", "locator")
	require.NoError(t, err)
	defer os.RemoveAll(root)

	touchFile(t, filepath.Join(root, "www", "nginx_access.20240609"))

	date, _ := time.Parse("20060102", "20240610")

	t.Run("no file for the day", func(tt *testing.T) {
		paths, err := locator.Locate(root, date, "www")
		require.NoError(tt, err)
		assert.Empty(tt, paths)
	})

	t.Run("no directory for the source", func(tt *testing.T) {
		paths, err := locator.Locate(root, date, "no-such-host")
		require.NoError(tt, err)
		assert.Empty(tt, paths)
	})
}

func TestLocateSourcesAreIndependent(t *testing.T) {
	root, err := ioutil.TempDir("", "locator")
	require.NoError(t, err)
	defer os.RemoveAll(root)

	touchFile(t, filepath.Join(root, "www", "nginx_access.20240610"))

	date, _ := time.Parse("20060102", "20240610")

	wwwPaths, err := locator.Locate(root, date, "www")
	require.NoError(t, err)
	assert.Len(t, wwwPaths, 1)

	intraPaths, err := locator.Locate(root, date, "intranet")
	require.NoError(t, err)
	assert.Empty(t, intraPaths)
}
