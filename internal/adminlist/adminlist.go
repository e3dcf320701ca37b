package adminlist

import (
	"errors"
	"os"
	"strings"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/labstack/gommon/log"
)

// Source yields the current set of admin emails. Implementations must
// re-read their backing data on every Load call so external edits take
// effect without a restart.
type Source interface {
	Load() ([]string, error)
}

type Resolver struct {
	source Source
}

func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// IsPrivileged reports whether the email is currently on the allow-list.
// Comparison is case-insensitive on a trimmed, lowercased address. An
// empty or unreadable source means nobody is privileged.
func (r *Resolver) IsPrivileged(email string) bool {
	normalized := model.NormalizeEmail(email)
	if normalized == "" {
		return false
	}

	emails, err := r.source.Load()
	if err != nil {
		log.Warnf("loading admin list: %+v", err)
		return false
	}

	for _, candidate := range emails {
		if model.NormalizeEmail(candidate) == normalized {
			return true
		}
	}
	return false
}

// FileSource reads admin emails from an env-style file. The file is
// parsed on every Load; no contents are retained between calls. It
// understands ADMIN_EMAILS (comma-separated) and falls back to the
// singular ADMIN_EMAIL key.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Missing file means an empty list, not an error.
			return nil, nil
		}
		return nil, err
	}

	values := parseEnvFile(string(data))

	raw := values["ADMIN_EMAILS"]
	if raw == "" {
		raw = values["ADMIN_EMAIL"]
	}
	if raw == "" {
		return nil, nil
	}

	emails := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			emails = append(emails, part)
		}
	}
	return emails, nil
}

func parseEnvFile(data string) map[string]string {
	values := map[string]string{}
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		values[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}
	return values
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'') {
			return strings.TrimSpace(value[1 : len(value)-1])
		}
	}
	return value
}
