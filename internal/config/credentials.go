package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type CredentialSource string

const (
	SourceNone    CredentialSource = "none"
	SourceEnv     CredentialSource = "env"
	SourceSecrets CredentialSource = "secrets"
	SourceDotEnv  CredentialSource = "dotenv"
)

type Credential struct {
	Value  string
	Source CredentialSource
}

type Credentials struct {
	OpenAI Credential
	Gemini Credential
}

func (c Credentials) Key(backend string) Credential {
	switch backend {
	case BackendOpenAI:
		return c.OpenAI
	case BackendGemini:
		return c.Gemini
	default:
		return Credential{Source: SourceNone}
	}
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(string) (string, bool)

type credentialKey struct {
	env     string
	secrets string
}

var (
	openAIKey = credentialKey{env: "OPENAI_API_KEY", secrets: "openai.api_key"}
	geminiKey = credentialKey{env: "GEMINI_API_KEY", secrets: "gemini.api_key"}
)

// ResolveCredentials looks each API key up in the process environment, then
// the secrets store, then the local .env file. First hit wins. Missing files
// are expected; unreadable ones are reported as warnings, never as errors.
func ResolveCredentials(lookup LookupFunc, secretsFile, envFile string) (Credentials, []string) {
	var warnings []string

	secrets, err := readSecrets(secretsFile)
	if err != nil {
		warnings = append(warnings, err.Error())
	}
	dotenv, err := readDotEnv(envFile)
	if err != nil {
		warnings = append(warnings, err.Error())
	}

	resolve := func(k credentialKey) Credential {
		if v, ok := lookup(k.env); ok && strings.TrimSpace(v) != "" {
			return Credential{Value: strings.TrimSpace(v), Source: SourceEnv}
		}
		if secrets != nil {
			if v := strings.TrimSpace(secrets.GetString(k.secrets)); v != "" {
				return Credential{Value: v, Source: SourceSecrets}
			}
		}
		if v := strings.TrimSpace(dotenv[k.env]); v != "" {
			return Credential{Value: v, Source: SourceDotEnv}
		}
		return Credential{Source: SourceNone}
	}

	return Credentials{
		OpenAI: resolve(openAIKey),
		Gemini: resolve(geminiKey),
	}, warnings
}

func readSecrets(path string) (*viper.Viper, error) {
	if path == "" {
		return nil, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read secrets file %s: %w", path, err)
	}
	return v, nil
}

func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}
