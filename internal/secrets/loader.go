package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a credential such as the Gemini API key or the
// market API token comes from. The first non-empty of File, Env and Value wins.
type Source struct {
	// Name appears in error messages.
	Name string
	// File holds the secret on its first line or as the whole content.
	File string
	// Env names an environment variable holding the secret.
	Env string
	// Value is an inline secret from configuration or flags.
	Value string
	// Optional makes a missing secret yield an empty string instead of an error.
	Optional bool
}

// Load resolves src to a trimmed secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if src.Optional {
		return "", nil
	}
	return "", fmt.Errorf("%s is not configured", name)
}
