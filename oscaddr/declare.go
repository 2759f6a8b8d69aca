package oscaddr

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${NAME} with the value of the environment variable NAME.
// A bare '$' is left alone, so addresses such as /price/$usd survive.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

// declarationFile is the YAML form of a route list.
//
//	routes:
//	  - name: SetFreq
//	    address: /synth/{id:int}/freq
//	  - prefix: /renderer/{rid:uint}
//	    routes:
//	      - name: Say
//	        address: /say
type declarationFile struct {
	Routes []declarationEntry `yaml:"routes"`
}

type declarationEntry struct {
	Name    string             `yaml:"name"`
	Address string             `yaml:"address"`
	Prefix  string             `yaml:"prefix"`
	Routes  []declarationEntry `yaml:"routes"`
}

// ParseDeclarations reads untyped declarations from YAML. References of the
// form ${NAME} are replaced with environment variables first; other uses of
// '$' are kept literally.
func ParseDeclarations(data []byte) ([]Declaration, error) {
	var f declarationFile
	if err := yaml.Unmarshal([]byte(expandEnv(string(data))), &f); err != nil {
		return nil, fmt.Errorf("ParseDeclarations: %w", err)
	}

	decls, err := flattenEntries(f.Routes)
	if err != nil {
		return nil, fmt.Errorf("ParseDeclarations: %w", err)
	}
	return decls, nil
}

// LoadDeclarations reads declarations from a YAML file.
func LoadDeclarations(path string) ([]Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadDeclarations: %w", err)
	}
	return ParseDeclarations(data)
}

func flattenEntries(entries []declarationEntry) ([]Declaration, error) {
	var decls []Declaration
	for i, e := range entries {
		switch {
		case e.Prefix != "":
			if e.Name != "" || e.Address != "" {
				return nil, fmt.Errorf("entry %d: prefix group %s cannot have a name or address", i, e.Prefix)
			}
			nested, err := flattenEntries(e.Routes)
			if err != nil {
				return nil, fmt.Errorf("prefix %s: %w", e.Prefix, err)
			}
			decls = append(decls, Prefix(e.Prefix, nested...)...)
		case e.Name == "" || e.Address == "":
			return nil, fmt.Errorf("entry %d: name and address are required", i)
		case len(e.Routes) > 0:
			return nil, fmt.Errorf("entry %d (%s): nested routes need a prefix", i, e.Name)
		default:
			decls = append(decls, Declare(e.Name, e.Address))
		}
	}
	return decls, nil
}
