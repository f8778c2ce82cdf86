// Package setup registers the MCP server in a desktop MCP client's configuration file.
package setup

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ServerName is the key the server is registered under
const ServerName = "ddx-coach"

// Environment variables passed to the registered server
const (
	envCasesDir    = "DDX_DATA_CASES_DIR"
	envCatalogPath = "DDX_DATA_CATALOG_PATH"
)

// ClientConfig represents an MCP client configuration file
type ClientConfig struct {
	MCPServers map[string]MCPServerConfig `json:"mcpServers"`
	// Other top-level keys are preserved on save.
	extra map[string]json.RawMessage
}

// MCPServerConfig represents a single MCP server configuration
type MCPServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Options contains options for registering the server
type Options struct {
	ConfigPath  string // client configuration file to update
	BinaryPath  string // path to the mcp-server binary; looked up when empty
	CasesDir    string
	CatalogPath string
}

// LoadClientConfig loads a client configuration; a missing file yields an empty one
func LoadClientConfig(configPath string) (*ClientConfig, error) {
	config := &ClientConfig{MCPServers: make(map[string]MCPServerConfig)}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &config.extra); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if raw, ok := config.extra["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &config.MCPServers); err != nil {
			return nil, fmt.Errorf("failed to parse mcpServers: %w", err)
		}
		delete(config.extra, "mcpServers")
	}
	if config.MCPServers == nil {
		config.MCPServers = make(map[string]MCPServerConfig)
	}

	return config, nil
}

// SaveClientConfig writes config to configPath, creating the directory if needed
func SaveClientConfig(configPath string, config *ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := make(map[string]any, len(config.extra)+1)
	for k, v := range config.extra {
		out[k] = v
	}
	out["mcpServers"] = config.MCPServers

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Register adds or updates the server entry in the client configuration
func Register(opts Options) (*MCPServerConfig, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("client config path is required")
	}

	config, err := LoadClientConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	binaryPath := opts.BinaryPath
	if binaryPath == "" {
		binaryPath, err = findBinary()
		if err != nil {
			return nil, fmt.Errorf("could not find server binary: %w", err)
		}
	}

	server := MCPServerConfig{
		Command: binaryPath,
		Env:     make(map[string]string),
	}
	if opts.CasesDir != "" {
		abs, err := filepath.Abs(opts.CasesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cases directory: %w", err)
		}
		server.Env[envCasesDir] = abs
	}
	if opts.CatalogPath != "" {
		abs, err := filepath.Abs(opts.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
		}
		server.Env[envCatalogPath] = abs
	}

	config.MCPServers[ServerName] = server
	if err := SaveClientConfig(opts.ConfigPath, config); err != nil {
		return nil, err
	}
	return &server, nil
}

// Status represents the registration state in a client configuration
type Status struct {
	Registered bool     `json:"registered"`
	ServerPath string   `json:"server_path,omitempty"`
	CasesDir   string   `json:"cases_dir,omitempty"`
	Issues     []string `json:"issues"`
}

// GetStatus checks the registration in configPath
func GetStatus(configPath string) (*Status, error) {
	status := &Status{Issues: []string{}}

	config, err := LoadClientConfig(configPath)
	if err != nil {
		return nil, err
	}

	server, ok := config.MCPServers[ServerName]
	if !ok {
		status.Issues = append(status.Issues, fmt.Sprintf("%s is not registered in %s", ServerName, configPath))
		return status, nil
	}
	status.Registered = true
	status.ServerPath = server.Command
	status.CasesDir = server.Env[envCasesDir]

	if info, err := os.Stat(server.Command); err != nil {
		status.Issues = append(status.Issues, fmt.Sprintf("Server binary not found: %s", server.Command))
	} else if info.Mode()&0o111 == 0 {
		status.Issues = append(status.Issues, fmt.Sprintf("Server binary is not executable: %s", server.Command))
	}
	if status.CasesDir != "" {
		if _, err := os.Stat(status.CasesDir); err != nil {
			status.Issues = append(status.Issues, fmt.Sprintf("Cases directory does not exist: %s", status.CasesDir))
		}
	}

	return status, nil
}

// findBinary attempts to find the server binary in common locations
func findBinary() (string, error) {
	const binaryName = "mcp-server"

	if path, err := exec.LookPath(binaryName); err == nil {
		return path, nil
	}

	locations := []string{
		"./" + binaryName,
		"./build/" + binaryName,
		"/usr/local/bin/" + binaryName,
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".local", "bin", binaryName))
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			if abs, err := filepath.Abs(loc); err == nil {
				return abs, nil
			}
			return loc, nil
		}
	}

	return "", fmt.Errorf("binary '%s' not found in common locations", binaryName)
}
