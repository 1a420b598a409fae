// Package installer registers the typelens MCP server with the agent
// host's configuration store and drops a usage guide next to it.
//
// Both steps are best-effort and idempotent: an existing registration or
// guide counts as success, and a failure in one step does not prevent the
// other from running.
package installer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	serverName = "typelens"
	guideName  = "typelens-usage.md"
)

// Installer performs the setup steps against a host directory, normally
// the user's home. The indirection keeps the steps testable.
type Installer struct {
	homeDir string
	logger  *slog.Logger
}

// New creates an installer rooted at the user's home directory.
func New(logger *slog.Logger) (*Installer, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return NewAt(home, logger), nil
}

// NewAt creates an installer rooted at an explicit directory.
func NewAt(homeDir string, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Installer{homeDir: homeDir, logger: logger}
}

// Run executes both setup steps. Each step is attempted regardless of the
// other's outcome; the returned error joins whatever failed.
func (i *Installer) Run() error {
	var errs []error

	if registered, err := i.RegisterServer(); err != nil {
		i.logger.Warn("could not register MCP server", "err", err)
		errs = append(errs, fmt.Errorf("registering MCP server: %w", err))
	} else if registered {
		i.logger.Info("registered MCP server", "name", serverName)
	} else {
		i.logger.Info("MCP server already registered", "name", serverName)
	}

	if written, err := i.WriteGuide(); err != nil {
		i.logger.Warn("could not write usage guide", "err", err)
		errs = append(errs, fmt.Errorf("writing usage guide: %w", err))
	} else if written {
		i.logger.Info("wrote usage guide", "path", i.guidePath())
	} else {
		i.logger.Info("usage guide already present", "path", i.guidePath())
	}

	return errors.Join(errs...)
}

// RegisterServer adds a typelens entry under mcpServers in the host's JSON
// configuration. Returns false when the entry already exists.
func (i *Installer) RegisterServer() (bool, error) {
	configPath := filepath.Join(i.homeDir, ".claude.json")

	root := map[string]any{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &root); err != nil {
			return false, fmt.Errorf("parsing %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// First registration creates the file.
	default:
		return false, err
	}

	servers, _ := root["mcpServers"].(map[string]any)
	if servers == nil {
		servers = map[string]any{}
		root["mcpServers"] = servers
	}
	if _, ok := servers[serverName]; ok {
		return false, nil
	}

	exe, err := os.Executable()
	if err != nil {
		exe = serverName // fall back to a PATH lookup by the host
	}
	servers[serverName] = map[string]any{
		"command": exe,
		"args":    []string{"serve"},
	}

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(configPath, append(out, '\n'), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", configPath, err)
	}
	return true, nil
}

// WriteGuide drops the static usage document at its well-known path.
// Returns false when the guide is already present.
func (i *Installer) WriteGuide() (bool, error) {
	path := i.guidePath()
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(guideText), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func (i *Installer) guidePath() string {
	return filepath.Join(i.homeDir, ".claude", guideName)
}

const guideText = `# typelens

typelens answers one question about Go source: what type does the compiler
infer at this point?

## Tools

- hover(file, line, column, include_docs?, project?): type signature at a
  1-based position, as an editor hover would show it.
- hover_by_name(file, name, line?, include_docs?, project?): same result,
  located by symbol name; pass line to disambiguate duplicates.
- batch_hover(file, positions[], include_docs?, project?): many positions
  with a single program load; each position succeeds or fails on its own.

## Tips

- Hovering a call expression reports the signature instantiated at the
  call site, so generic functions show concrete type arguments.
- Positions are 1-based; a column one past the end of a line is valid.
- Lookups use the nearest go.mod above the file; pass project to override,
  or omit it to fall back to best-effort single-file checking.
`
