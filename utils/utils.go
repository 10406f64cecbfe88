package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetProjectRoot walks up from the working directory to the nearest go.mod
func GetProjectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findGoModDir(wd)
}

// ResolveConfigDir returns dir when it is set, otherwise the config/
// directory of the project root, otherwise ./config.
func ResolveConfigDir(dir string) string {
	if dir != "" {
		return dir
	}
	root, err := GetProjectRoot()
	if err != nil {
		return "config"
	}
	return filepath.Join(root, "config")
}

// findGoModDir searches startDir and its parents for go.mod
func findGoModDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	currentDir := absDir
	for {
		if fileExists(filepath.Join(currentDir, "go.mod")) {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod not found above %s", startDir)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
