// Package envfile reads, generates, and compares the dotenv files the
// application's deploy environments are configured with.
package envfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Load parses the dotenv file at path. Comments, blank lines, `export`
// prefixes, and quoted values are handled.
func Load(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("load env file %s: %w", path, err)
	}
	log.WithFields(log.Fields{"path": path, "vars": len(values)}).Debug("env file loaded")
	return values, nil
}

// FromProcess snapshots the process environment into a map.
func FromProcess() map[string]string {
	environ := os.Environ()
	out := make(map[string]string, len(environ))
	for _, item := range environ {
		parts := strings.SplitN(item, "=", 2)
		if len(parts) != 2 {
			continue
		}
		out[parts[0]] = parts[1]
	}
	return out
}

// Merged overlays overlay onto base without mutating either. An explicitly
// supplied env file wins over the inherited process environment.
func Merged(base, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
