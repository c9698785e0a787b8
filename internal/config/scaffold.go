package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScaffoldProject creates the showcase project structure in the given
// directory: showcase.toml, an example demo script under demos/, and a
// .gitignore entry for the .showcase/ state directory. Files that already
// exist are left untouched. Returns the list of created paths.
func ScaffoldProject(dir string) ([]string, error) {
	var created []string

	// showcase.toml
	tomlPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		if _, initErr := InitFile(dir); initErr != nil {
			return created, initErr
		}
		created = append(created, tomlPath)
	}

	// demos/example.yaml
	demosDir := filepath.Join(dir, "demos")
	if mkErr := os.MkdirAll(demosDir, 0755); mkErr != nil {
		return created, fmt.Errorf("scaffold: create %s: %w", demosDir, mkErr)
	}
	examplePath := filepath.Join(demosDir, "example.yaml")
	if _, err := os.Stat(examplePath); os.IsNotExist(err) {
		if writeErr := os.WriteFile(examplePath, []byte(exampleScript), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", examplePath, writeErr)
		}
		created = append(created, examplePath)
	}

	// .gitignore: keep playback state and session logs out of version control
	const gitignoreEntry = ".showcase/"
	gitignorePath := filepath.Join(dir, ".gitignore")
	existing, err := os.ReadFile(gitignorePath)
	if os.IsNotExist(err) {
		if writeErr := os.WriteFile(gitignorePath, []byte(gitignoreEntry+"\n"), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", gitignorePath, writeErr)
		}
		created = append(created, gitignorePath)
	} else if err != nil {
		return created, fmt.Errorf("scaffold: read %s: %w", gitignorePath, err)
	} else if !strings.Contains(string(existing), gitignoreEntry) {
		content := string(existing)
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content += "\n"
		}
		content += gitignoreEntry + "\n"
		if writeErr := os.WriteFile(gitignorePath, []byte(content), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", gitignorePath, writeErr)
		}
		created = append(created, gitignorePath)
	}

	return created, nil
}

const exampleScript = `# A terminal demo. Categories: prompt, status, warning, success, plain.
# instant lines appear with no delay; delay_ms overrides computed pacing.
name: example
title: Deploy walkthrough
kind: terminal
lines:
  - text: "Deploy pipeline v2.4"
    instant: true
  - category: prompt
    text: "deploy --env staging"
  - category: status
    text: "Building release artifacts"
  - category: success
    text: "Artifacts built in 41s"
  - category: warning
    text: "2 migrations pending"
  - category: status
    text: "Executing migrations"
  - category: success
    text: "Staging is live"
    color: green
  - text: ""
    delay_ms: 1200
`
