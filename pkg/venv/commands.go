// pkg/venv/commands.go
package venv

import (
	"path"
	"strings"

	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/shell"
)

// CreateScript returns the command line that creates an environment at dir
// from dist
func CreateScript(dist core.InterpreterRecord, dir, goos string) string {
	d := shell.ForOS(goos)

	if d == shell.Cmd {
		if dist.Kind == core.KindConda {
			return d.And(
				d.Source(d.Join(dist.Path, "Scripts", "activate.bat")),
				"conda create --prefix "+d.Quote(dir)+" python -y",
			)
		}
		return d.And(
			`set "PATH=`+dist.Path+`;`+d.Join(dist.Path, "Scripts")+`;%PATH%"`,
			"python -m venv "+d.Quote(dir),
		)
	}

	if dist.Kind == core.KindConda {
		mamba := d.Quote(d.Join(dist.Path, "bin", "mamba"))
		conda := d.Quote(d.Join(dist.Path, "bin", "conda"))
		// mamba is much faster at solving; install it into the base if missing
		ensure := "(" + d.Or(mamba+" -V", conda+" install mamba -y") + ")"
		return d.And(ensure, mamba+" create --prefix "+d.Quote(dir)+" python -y")
	}
	return d.Quote(dist.Path) + " -m venv " + d.Quote(dir)
}

// RemoveScript returns the command line that unregisters a Conda
// environment from its distribution
func RemoveScript(env core.EnvironmentRecord, goos string) string {
	d := shell.ForOS(goos)
	if d == shell.Cmd {
		return d.And(
			d.Source(d.Join(env.DistributionPath, "Scripts", "activate.bat")),
			"conda env remove --prefix "+d.Quote(env.Path)+" --yes",
		)
	}
	return d.Quote(d.Join(env.DistributionPath, "bin", "conda")) +
		" env remove --prefix " + d.Quote(env.Path) + " --yes"
}

// Activation returns the statement that activates t and the command that
// starts its python afterwards
func Activation(t Target, goos string) (prefix, python string) {
	d := shell.ForOS(goos)
	python = "python"

	switch {
	case t.Kind == core.KindConda && d == shell.Cmd:
		prefix = d.Source(d.Join(t.DistributionPath, "Scripts", "activate.bat"))
		if !t.Base {
			prefix = d.And(prefix, "conda activate "+d.Quote(t.Path))
		}
	case t.Kind == core.KindConda:
		prefix = d.Source(d.Join(t.DistributionPath, "etc", "profile.d", "conda.sh"))
		if t.Base {
			prefix = d.And(prefix, "conda activate base")
		} else {
			prefix = d.And(prefix, "conda activate "+d.Quote(t.Path))
		}
	case t.Base && d == shell.Cmd:
		prefix = `set "PATH=` + t.Path + `;` + d.Join(t.Path, "Scripts") + `;%PATH%"`
	case t.Base:
		// a base POSIX interpreter is addressed by its executable
		python = d.Quote(t.Path)
		prefix = `export PATH=` + d.Quote(path.Dir(t.Path)) + `:"$PATH"`
	case d == shell.Cmd:
		prefix = d.Source(d.Join(t.Path, "Scripts", "activate.bat"))
	default:
		prefix = d.Source(d.Join(t.Path, "bin", "activate"))
	}

	return prefix, python
}

// pipInstall returns the install command for the target's package manager
func pipInstall(kind core.Kind, python string, packages ...string) string {
	if kind == core.KindConda {
		return "conda install --yes " + strings.Join(packages, " ")
	}
	return python + " -m pip install " + strings.Join(packages, " ")
}
