// Package config loads mprobe-go's ambient configuration: a JSON file
// validated against an embedded schema, combined with credentials read
// from a .env file or the process environment (a field set in the JSON
// file takes precedence over the environment), exposed as a
// package-level Keys variable.
package config

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nelusnegur/mprobe-go/pkg/log"
)

//go:embed schemas/*
var schemaFiles embed.FS

func load(s string) (io.ReadCloser, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	return schemaFiles.Open(u.Path)
}

func init() {
	jsonschema.Loaders["embedFS"] = load
}

// FetchConfig holds the parameters the remote fetcher needs to reach
// MongoDB Cloud's Log Collection Jobs API.
type FetchConfig struct {
	BaseURL           string  `json:"baseURL"`
	GroupID           string  `json:"groupID"`
	PublicKey         string  `json:"publicKey"`
	PrivateKey        string  `json:"privateKey"`
	PollInterval      string  `json:"pollInterval"`
	RequestsPerSecond float64 `json:"requestsPerSecond"`
}

// Config is the decoded shape of the JSON config file.
type Config struct {
	RenderDir string      `json:"renderDir"`
	Fetch     FetchConfig `json:"fetch"`
}

// Keys holds the active configuration, available to every package that
// imports config once Init has run. Defaults are conservative enough to
// run with no config file at all.
var Keys Config = Config{
	RenderDir: "./var/render",
	Fetch: FetchConfig{
		BaseURL:           "https://cloud.mongodb.com/api/atlas/v2",
		PollInterval:      "5s",
		RequestsPerSecond: 2,
	},
}

// Init validates and decodes the JSON config file at path, if present,
// merging it over the defaults in Keys. A missing file is not an error:
// mprobe-go can run entirely off flags and environment variables.
//
// Init also loads envPath (conventionally ".env") into the process
// environment via godotenv, so that FETCH_PUBLIC_KEY/FETCH_PRIVATE_KEY
// style secrets never need to live in the JSON file. Environment
// variables present before the call are never overwritten.
func Init(path, envPath string) error {
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		log.Warnf("config: could not load %s: %v", envPath, err)
	}

	if pub := os.Getenv("FETCH_PUBLIC_KEY"); pub != "" {
		Keys.Fetch.PublicKey = pub
	}
	if priv := os.Getenv("FETCH_PRIVATE_KEY"); priv != "" {
		Keys.Fetch.PrivateKey = priv
	}
	if group := os.Getenv("FETCH_GROUP_ID"); group != "" {
		Keys.Fetch.GroupID = group
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	s, err := jsonschema.Compile("embedFS://schemas/config.schema.json")
	if err != nil {
		return fmt.Errorf("config: compile schema: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("config: validate %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&Keys); err != nil {
		return fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	log.Infof("config: loaded %s", path)
	return nil
}

// PollInterval parses Keys.Fetch.PollInterval, falling back to 5s on a
// malformed value rather than failing startup over a cosmetic setting.
func PollInterval() time.Duration {
	d, err := time.ParseDuration(Keys.Fetch.PollInterval)
	if err != nil {
		return 5 * time.Second
	}
	return d
}
