package classify

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/pyman/pkg/core"
)

func TestParseHistory(t *testing.T) {
	tests := []struct {
		name    string
		history string
		want    string
	}{
		{
			name:    "posix conda",
			history: "==> 2023-01-01 <==\n# cmd: /opt/conda/bin/conda create --prefix /home/u/.envs/foo python\n+conda-forge::python-3.11\n",
			want:    "/opt/conda",
		},
		{
			name:    "posix mamba",
			history: "# cmd: /home/u/.local/pyman/conda/bin/mamba create --prefix /home/u/envs/bar python -y\n",
			want:    "/home/u/.local/pyman/conda",
		},
		{
			name:    "windows scripts",
			history: "# cmd: C:\\Users\\u\\miniforge3\\Scripts\\conda-script.py create --prefix C:\\envs\\x python -y\n",
			want:    "C:\\Users\\u\\miniforge3",
		},
		{
			name:    "python -m conda",
			history: "# cmd: /opt/conda/lib/python3.11/site-packages/conda/__main__.py create -p /e python\n",
			want:    "/opt/conda",
		},
		{
			name:    "windows condabin",
			history: "# cmd: C:\\Users\\u\\miniforge3\\condabin\\conda.bat create --prefix C:\\envs\\x python -y\n",
			want:    "C:\\Users\\u\\miniforge3",
		},
		{
			name:    "windows exe",
			history: "# cmd: C:\\Users\\u\\miniforge3\\Scripts\\conda.exe create --prefix C:\\envs\\x python -y\n",
			want:    "C:\\Users\\u\\miniforge3",
		},
		{
			name:    "first cmd line wins",
			history: "# cmd: /a/bin/conda create -p /e\n# cmd: /b/bin/conda install numpy\n",
			want:    "/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHistory(strings.NewReader(tt.history))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHistoryFailures(t *testing.T) {
	for _, history := range []string{
		"",
		"==> 2023 <==\n+python-3.11\n",
		"# cmd: /opt/conda/bin/conda install numpy\n",
		"# cmd: create --prefix /x\n",
		"# cmd: /usr/bin/pip create x\n",
	} {
		_, err := ParseHistory(strings.NewReader(history))
		assert.True(t, errors.Is(err, core.ErrClassification), "history %q", history)
	}
}

func newFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	// vanilla environment
	require.NoError(t, afero.WriteFile(fs, "/envs/plain/bin/activate", []byte("# activate"), 0644))
	// conda environment
	require.NoError(t, afero.WriteFile(fs, "/envs/foo/conda-meta/history",
		[]byte("# cmd: /opt/conda/bin/conda create --prefix /envs/foo python\n"), 0644))
	// conda environment with an unreadable history
	require.NoError(t, afero.WriteFile(fs, "/envs/odd/conda-meta/history", []byte("+python\n"), 0644))
	// distribution root
	require.NoError(t, fs.MkdirAll("/opt/conda/conda-meta", 0755))
	require.NoError(t, fs.MkdirAll("/opt/conda/condabin", 0755))
	return fs
}

func TestClassifyVanilla(t *testing.T) {
	c := New(&Config{Fs: newFs(t)})

	got, err := c.Classify("/envs/plain", "linux")
	require.NoError(t, err)
	assert.Equal(t, core.KindVanilla, got.Kind)
	assert.Empty(t, got.DistributionPath)
	assert.Equal(t, filepath.Join("/envs/plain", "bin"), got.ActivationPath)
}

func TestClassifyConda(t *testing.T) {
	c := New(&Config{Fs: newFs(t)})

	// both the environment and its script directory are accepted
	for _, p := range []string{"/envs/foo", "/envs/foo/bin"} {
		got, err := c.Classify(p, "linux")
		require.NoError(t, err)
		assert.Equal(t, core.KindConda, got.Kind)
		assert.Equal(t, "/opt/conda", got.DistributionPath)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := New(&Config{Fs: newFs(t)})
	a, errA := c.Classify("/envs/foo", "linux")
	b, errB := c.Classify("/envs/foo", "linux")
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
}

func TestClassifyFailures(t *testing.T) {
	c := New(&Config{Fs: newFs(t)})

	_, err := c.Classify("/envs/odd", "linux")
	assert.True(t, errors.Is(err, core.ErrClassification))

	_, err = c.Classify("/envs/missing", "linux")
	assert.True(t, errors.Is(err, core.ErrPathNotFound))
}

func TestIsEnvironment(t *testing.T) {
	fs := newFs(t)
	assert.True(t, IsEnvironment(fs, "/envs/plain"))
	assert.True(t, IsEnvironment(fs, "/envs/foo"))
	assert.False(t, IsEnvironment(fs, "/opt/conda"))
	assert.False(t, IsEnvironment(fs, "/envs"))
}

func TestEnvRoot(t *testing.T) {
	assert.Equal(t, filepath.Clean("/envs/foo"), EnvRoot("/envs/foo/bin"))
	assert.Equal(t, filepath.Clean("/envs/foo"), EnvRoot("/envs/foo/Scripts/"))
	assert.Equal(t, filepath.Clean("/envs/foo"), EnvRoot("/envs/foo"))
}
