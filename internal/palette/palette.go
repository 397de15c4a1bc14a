// Package palette provides the built-in bivariate color ramps and
// loading of user-defined ramps from YAML files.
package palette

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/bivarmap/internal/bivar"
)

// Built-in ramps. Order within each ramp: bottom-left, bottom-center,
// bottom-right, center-left, center-center, center-right, top-left,
// top-center, top-right.
var builtin = map[string]bivar.Ramp{
	"pink-blue": {
		"#e8e8e8", "#ace4e4", "#5ac8c8",
		"#dfb0d6", "#a5add3", "#5698b9",
		"#be64ac", "#8c62aa", "#3b4994",
	},
	"teal-red": {
		"#e8e8e8", "#e4acac", "#c85a5a",
		"#b0d5df", "#ad9ea5", "#985356",
		"#64acbe", "#627f8c", "#574249",
	},
	"blue-orange": {
		"#fef1e4", "#fab186", "#f3742d",
		"#97d0e7", "#b0988c", "#ab5f37",
		"#18aee5", "#407b8f", "#5c473d",
	},
}

// Names returns the built-in palette names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a copy of the named built-in ramp.
func Get(name string) (bivar.Ramp, error) {
	r, ok := builtin[name]
	if !ok {
		return nil, eris.Errorf("palette: unknown palette %q (built-in: %v)", name, Names())
	}
	return append(bivar.Ramp(nil), r...), nil
}

// file is the on-disk palette file layout.
type file struct {
	Palettes map[string][]string `yaml:"palettes"`
}

// LoadFile reads user-defined ramps from a YAML file of the form:
//
//	palettes:
//	  my-ramp: ["#aaa", ... nine colors ...]
//
// Every ramp in the file must have exactly nine colors.
func LoadFile(path string) (map[string]bivar.Ramp, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "palette: read %s", path)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "palette: parse %s", path)
	}

	out := make(map[string]bivar.Ramp, len(f.Palettes))
	for name, colors := range f.Palettes {
		r := bivar.Ramp(colors)
		if err := r.Validate(); err != nil {
			return nil, eris.Wrapf(err, "palette: %q in %s", name, path)
		}
		out[name] = r
	}
	return out, nil
}

// Resolve returns the named ramp, preferring a user palette file over
// the built-in set when a path is given.
func Resolve(name, filePath string) (bivar.Ramp, error) {
	if filePath != "" {
		ramps, err := LoadFile(filePath)
		if err != nil {
			return nil, err
		}
		if r, ok := ramps[name]; ok {
			return r, nil
		}
	}
	return Get(name)
}
