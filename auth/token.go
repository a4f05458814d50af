// Package auth loads the API bearer token from local storage. The token is
// read once at startup and is read-only afterwards.
package auth

import (
	"os"
	"strings"

	"github.com/catourne/equipment-exporter/internal/errors"
)

// LoadToken reads the bearer token from the given file, stripping surrounding
// whitespace. A missing or empty token file is a fatal configuration error for
// any run that needs the API.
func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewAuthMissingError(
				"token file '" + path + "' was not found - create it and put the API token there")
		}
		return "", errors.NewAuthMissingError("could not read token file '"+path+"'", errors.WithCause(err))
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", errors.NewAuthMissingError("token file '" + path + "' is empty")
	}
	return token, nil
}
