package config

import (
	"fmt"
	"os"
)

const (
	appNameVar    = "APP_NAME"
	backendURLVar = "BACKEND_URL"
	folderEnvVar  = "FOLDER"
	stubPortVar   = "STUB_PORT"
	stubSecretVar = "STUB_TOKEN_SECRET"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "BeritaHub")
}

// GetAPIBaseURL returns the base URL of the portal REST API, including the
// /api prefix (e.g. "http://localhost:5000/api").
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(backendURLVar, "http://localhost:5000/api")
}

// GetDataFolder returns the folder holding durable client state
// (access token and cached identity).
func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetStubPort() string {
	port := GetEnv(stubPortVar, "5000")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetStubTokenSecret() string {
	return GetEnv(stubSecretVar, "dev-only-secret")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
