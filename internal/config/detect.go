package config

import (
	"bufio"
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// manifestDetectors are tried in order by DetectProjectName.
var manifestDetectors = []func(dir string) string{
	detectFromGoMod,
	detectFromPackageJSON,
	detectFromPyproject,
	detectFromCargo,
}

// DetectProjectName infers the project name shown in the TUI header from
// common manifest files in dir. It checks go.mod, package.json,
// pyproject.toml and Cargo.toml in that order and falls back to the
// directory base name. Unreadable manifests are skipped.
func DetectProjectName(dir string) string {
	for _, detect := range manifestDetectors {
		if name := detect(dir); name != "" {
			return name
		}
	}
	return filepath.Base(dir)
}

// detectFromGoMod returns the last element of the module path, skipping a
// major version suffix such as /v2.
func detectFromGoMod(dir string) string {
	f, err := os.Open(filepath.Join(dir, "go.mod"))
	if err != nil {
		return ""
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		mod, ok := strings.CutPrefix(line, "module ")
		if !ok {
			continue
		}
		if i := strings.Index(mod, "//"); i >= 0 {
			mod = mod[:i]
		}
		mod = strings.Trim(strings.TrimSpace(mod), `"`)
		if mod == "" {
			return ""
		}
		base := path.Base(mod)
		if isMajorVersion(base) && path.Dir(mod) != "." {
			base = path.Base(path.Dir(mod))
		}
		return base
	}
	return ""
}

func isMajorVersion(elem string) bool {
	digits, ok := strings.CutPrefix(elem, "v")
	if !ok || digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type packageJSON struct {
	Name string `json:"name"`
}

func detectFromPackageJSON(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return ""
	}
	var p packageJSON
	if err := json.Unmarshal(data, &p); err != nil {
		return ""
	}
	return p.Name
}

type pyprojectTOML struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name string `toml:"name"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

func detectFromPyproject(dir string) string {
	var p pyprojectTOML
	if _, err := toml.DecodeFile(filepath.Join(dir, "pyproject.toml"), &p); err != nil {
		return ""
	}
	if p.Project.Name != "" {
		return p.Project.Name
	}
	return p.Tool.Poetry.Name
}

type cargoTOML struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

func detectFromCargo(dir string) string {
	var c cargoTOML
	if _, err := toml.DecodeFile(filepath.Join(dir, "Cargo.toml"), &c); err != nil {
		return ""
	}
	return c.Package.Name
}
