package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForOS(t *testing.T) {
	assert.Equal(t, Cmd, ForOS("windows"))
	assert.Equal(t, POSIX, ForOS("linux"))
	assert.Equal(t, POSIX, ForOS("darwin"))
}

func TestQuotePOSIX(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/usr/bin/python3", "/usr/bin/python3"},
		{"", "''"},
		{"/home/u/my envs/foo", "'/home/u/my envs/foo'"},
		{"it's", `'it'"'"'s'`},
		{"$HOME", "'$HOME'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, POSIX.Quote(tt.in), tt.in)
	}
}

func TestQuoteCmd(t *testing.T) {
	assert.Equal(t, `"C:\Python311"`, Cmd.Quote(`C:\Python311`))
	assert.Equal(t, `"C:\a b"`, Cmd.Quote(`C:\"a b"`))
}

func TestChaining(t *testing.T) {
	assert.Equal(t, "a && b", POSIX.And("a", "", "b"))
	assert.Equal(t, "a || b", Cmd.Or("a", "b"))
	assert.Equal(t, "", POSIX.And())
}

func TestSource(t *testing.T) {
	assert.Equal(t, ". /e/bin/activate", POSIX.Source("/e/bin/activate"))
	assert.Equal(t, `call "C:\e\Scripts\activate.bat"`, Cmd.Source(`C:\e\Scripts\activate.bat`))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "/opt/conda/bin/conda", POSIX.Join("/opt/conda/", "bin", "conda"))
	assert.Equal(t, `C:\Miniforge3\Scripts\activate.bat`, Cmd.Join(`C:\Miniforge3\`, "Scripts", "activate.bat"))
	assert.Equal(t, `C:\x`, Cmd.Join(`C:\`, "x"))
	assert.Equal(t, "/x", POSIX.Join("/", "x"))
}
