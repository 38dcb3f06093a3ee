package internal

import (
	"encoding/base64"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/tempo-api/internal/models"
)

// DecodeCredentials decodes the base64 blob handed out by the RTE data
// portal, which wraps "client_id:client_secret".
func DecodeCredentials(blob string) (models.Credentials, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blob))
	if err != nil {
		return models.Credentials{}, errors.Mark(
			errors.Mark(errors.Wrap(err, "credentials are not valid base64"), ErrInvalidEncoding),
			ErrCredentialFormat,
		)
	}

	if !utf8.Valid(decoded) {
		return models.Credentials{}, ErrInvalidText
	}

	clientId, clientSecret, found := strings.Cut(string(decoded), ":")
	if !found {
		return models.Credentials{}, ErrInvalidFormat
	}

	return models.NewCredentials(clientId, clientSecret), nil
}

// ReadCredentialsFile reads and decodes a credentials file as downloaded
// from the RTE data portal.
func ReadCredentialsFile(path string) (models.Credentials, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.Credentials{}, errors.Wrapf(err, "failed to read credentials file %s", path)
	}
	return DecodeCredentials(string(content))
}
