package installer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/pyman/pkg/catalog"
	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/runner/runnertest"
)

// releaseServer serves a CPython source archive and a Miniforge installer
func releaseServer(t *testing.T) *httptest.Server {
	t.Helper()
	archives := map[string][]byte{
		"/3.11.9/Python-3.11.9.tar.xz":  tarXz(t, sourceTree),
		"/3.11.9/Python-3.11.9.tgz":     tarGz(t, sourceTree),
		"/3.11.9/Python-3.11.9.tar.zst": tarZst(t, sourceTree),
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for suffix, data := range archives {
			if strings.HasSuffix(r.URL.Path, suffix) {
				w.Write(data)
				return
			}
		}
		switch {
		case strings.HasSuffix(r.URL.Path, ".sh"), strings.HasSuffix(r.URL.Path, ".exe"):
			w.Write([]byte("#!/bin/sh\n"))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newInstaller(t *testing.T, srv *httptest.Server, goos string, fake *runnertest.Fake) (*Installer, string) {
	t.Helper()
	dir := t.TempDir()
	cat := catalog.Default().WithMirrors(srv.URL+"/python", srv.URL+"/miniforge")
	return New(&Config{
		GOOS:        goos,
		Arch:        "x86_64",
		InstallPath: filepath.Join(dir, "install"),
		CachePath:   filepath.Join(dir, "cache"),
		Catalog:     cat,
		Runner:      fake,
		Jobs:        4,
	}), dir
}

func TestInstallPythonFromSource(t *testing.T) {
	srv := releaseServer(t)
	defer srv.Close()
	fake := runnertest.New()
	inst, dir := newInstaller(t, srv, "linux", fake)

	res, err := inst.Install(context.Background(), Request{Kind: core.KindVanilla, Version: "3.11.9"})
	require.NoError(t, err)

	prefix := filepath.Join(dir, "install", "python-3.11.9")
	assert.Equal(t, filepath.Join(prefix, "bin", "python3"), res.Path)
	assert.Equal(t, "3.11.9", res.Version)
	assert.FileExists(t, filepath.Join(dir, "cache", "build", "Python-3.11.9", "configure"))

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, filepath.Join(dir, "cache", "build", "Python-3.11.9"), calls[0].Dir)
	assert.Equal(t, "./configure --prefix="+prefix+" && make -j4 && make install", calls[0].Script)
}

func TestInstallPythonFromMirrorArchiveFormats(t *testing.T) {
	srv := releaseServer(t)
	defer srv.Close()

	for _, format := range []string{"tgz", "tar.zst"} {
		t.Run(format, func(t *testing.T) {
			fake := runnertest.New()
			inst, dir := newInstaller(t, srv, "linux", fake)
			_, err := inst.catalog.WithArchive(format)
			require.NoError(t, err)

			res, err := inst.Install(context.Background(), Request{Kind: core.KindVanilla, Version: "3.11"})
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "cache", "Python-3.11.9."+format), res.Installer)
			assert.FileExists(t, filepath.Join(dir, "cache", "build", "Python-3.11.9", "configure"))
			require.Len(t, fake.Calls(), 1)
		})
	}
}

func TestInstallPythonBuildFailure(t *testing.T) {
	srv := releaseServer(t)
	defer srv.Close()
	fake := runnertest.New().On("./configure", "no C compiler", 1)
	inst, _ := newInstaller(t, srv, "linux", fake)

	_, err := inst.Install(context.Background(), Request{Kind: core.KindVanilla, Version: "3.11.9"})
	assert.True(t, errors.Is(err, core.ErrShellInvocation))
}

func TestInstallPythonMissingRelease(t *testing.T) {
	srv := releaseServer(t)
	defer srv.Close()
	fake := runnertest.New()
	inst, _ := newInstaller(t, srv, "linux", fake)

	_, err := inst.Install(context.Background(), Request{Kind: core.KindVanilla, Version: "3.11.1"})
	assert.True(t, errors.Is(err, core.ErrNetwork))
	assert.Empty(t, fake.Calls())
}

func TestInstallMiniforgeLinux(t *testing.T) {
	srv := releaseServer(t)
	defer srv.Close()
	fake := runnertest.New()
	inst, dir := newInstaller(t, srv, "linux", fake)

	res, err := inst.Install(context.Background(), Request{Kind: core.KindConda, Version: "24.3.0-0"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "install", "conda"), res.Path)

	file := filepath.Join(dir, "cache", "Miniforge3-24.3.0-0-Linux-x86_64.sh")
	assert.Equal(t,
		[]string{"bash " + file + " -b -u -p " + filepath.Join(dir, "install", "conda")},
		fake.Scripts())
}

func TestInstallOnWindowsUsesPowerShell(t *testing.T) {
	srv := releaseServer(t)
	defer srv.Close()
	fake := runnertest.New()
	inst, dir := newInstaller(t, srv, "windows", fake)

	res, err := inst.Install(context.Background(), Request{Kind: core.KindConda})
	require.NoError(t, err)
	assert.Empty(t, res.Path)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "powershell", calls[0].Method)
	file := filepath.Join(dir, "cache", "Miniforge3-"+catalog.Default().Miniforge.Version+"-Windows-x86_64.exe")
	assert.Equal(t, "Start-Process -FilePath '"+file+"' -ArgumentList '"+WindowsMiniforgeArgs+"' -Wait", calls[0].Script)
}
