package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultSecretsFile is where a Streamlit app keeps its secrets.
const DefaultSecretsFile = ".streamlit/secrets.toml"

// FileStore reads secrets from a TOML, YAML or JSON file,
// parsed once when constructed.
type FileStore struct {
	k       *koanf.Koanf
	path    string
	section string
}

// A FileStoreOpt configures a FileStore.
type FileStoreOpt func(*FileStore)

// WithSection scopes lookups to a table of the file,
// e.g. "connections.snowflake" for [connections.snowflake] in TOML.
func WithSection(section string) FileStoreOpt {
	return func(s *FileStore) {
		s.section = strings.Trim(section, ".")
	}
}

// NewFileStore parses the file at path.
// The parser is picked from the file extension.
func NewFileStore(path string, opts ...FileStoreOpt) (*FileStore, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, &BackendError{
			Backend: "secrets file",
			Reason:  fmt.Sprintf("unsupported file extension %q", filepath.Ext(path)),
			Fix:     "Use a .toml, .yaml, .yml or .json file.",
		}
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		reason := "cannot parse " + path
		if errors.Is(err, fs.ErrNotExist) {
			reason = "cannot find " + path
		}

		return nil, &BackendError{Backend: "secrets file", Reason: reason, Err: err}
	}

	s := &FileStore{k: k, path: path}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Lookup returns the value for key, converted to a string.
// Empty values count as missing.
func (s *FileStore) Lookup(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := key
	if s.section != "" {
		path = s.section + "." + key
	}

	if !s.k.Exists(path) {
		return "", &NotFoundError{Key: key, Backend: s.path}
	}

	val := s.k.String(path)
	if val == "" {
		return "", &NotFoundError{Key: key, Backend: s.path}
	}

	return val, nil
}
