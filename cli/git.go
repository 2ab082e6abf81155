package cli

// This file contains Git integration utilities for retrieving
// information about the hive checkout.

import (
	"fmt"
	"os/exec"
	"strings"
)

// hiveRevision returns the commit checked out in the hive repository.
func hiveRevision(repoPath string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get hive commit: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
