package bigml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables holding the default credentials.
const (
	EnvUsername = "BIGML_USERNAME"
	EnvAPIKey   = "BIGML_API_KEY"
)

// Credentials identify a BigML account.
type Credentials struct {
	// Username is the BigML account name.
	Username string `yaml:"username"`

	// APIKey is the account's API key.
	APIKey string `yaml:"api_key"`

	// Endpoint optionally overrides the BigML API endpoint. Mostly useful
	// for tests and on-premises installations.
	Endpoint string `yaml:"endpoint,omitempty"`
}

func (c Credentials) validate() error {
	if c.Username == "" {
		return errMissingCredentials(EnvUsername)
	}
	if c.APIKey == "" {
		return errMissingCredentials(EnvAPIKey)
	}
	return nil
}

// CredentialsFromEnv reads credentials from BIGML_USERNAME and
// BIGML_API_KEY.
func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		Username: os.Getenv(EnvUsername),
		APIKey:   os.Getenv(EnvAPIKey),
	}
	if err := creds.validate(); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// LoadCredentials reads credentials from a YAML file of the form:
//
//	username: my-account
//	api_key: 0123abcd...
//	endpoint: https://bigml.example.com   # optional
func LoadCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("could not read credentials file: %w", err)
	}
	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("could not parse credentials file %s: %w", path, err)
	}
	if err := creds.validate(); err != nil {
		return Credentials{}, fmt.Errorf("credentials file %s: %w", path, err)
	}
	return creds, nil
}
