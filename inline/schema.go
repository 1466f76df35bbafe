package inline

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
)

// Schemas lists the outputs a schema can be generated for.
var Schemas = []string{"formats", "submit", "jobs"}

// Schema describes the JSON printed by one inline command.
func Schema(name string) (*jsonschema.Schema, error) {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		name := t.Name()
		switch strings.ToLower(name) {
		case "format", "job":
			return filepath.Base(t.PkgPath()) + "." + name
		}

		return name
	}

	switch name {
	case "formats":
		return reflector.Reflect(&FormatsOutput{}), nil
	case "submit":
		return reflector.Reflect(&SubmitOutput{}), nil
	case "jobs":
		return reflector.Reflect(&JobsOutput{}), nil
	default:
		return nil, fmt.Errorf("unknown schema: %s", name)
	}
}
