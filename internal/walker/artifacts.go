// Build artifact detection from language-specific manifest files.
// Parses Cargo.toml, package.json, tsconfig.json, pyproject.toml at the
// search root to find configured output directories.
package walker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DetectArtifactDirs returns exclude globs for build output directories
// configured in manifests at root. Only non-default locations matter; the
// conventional ones (target, dist, zig-out, ...) are already in
// DefaultExcludes.
func DetectArtifactDirs(root string) []string {
	var patterns []string
	patterns = append(patterns, detectRustOutputs(root)...)
	patterns = append(patterns, detectJavaScriptOutputs(root)...)
	patterns = append(patterns, detectPythonOutputs(root)...)
	return dedupePatterns(patterns)
}

func detectRustOutputs(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, "Cargo.toml"))
	if err != nil {
		return nil
	}
	var cargo map[string]interface{}
	if toml.Unmarshal(data, &cargo) != nil {
		return nil
	}

	var patterns []string
	if build, ok := cargo["build"].(map[string]interface{}); ok {
		if dir, ok := build["target-dir"].(string); ok {
			patterns = append(patterns, dirPattern(dir))
		}
	}
	if profile, ok := cargo["profile"].(map[string]interface{}); ok {
		if release, ok := profile["release"].(map[string]interface{}); ok {
			if dir, ok := release["target-dir"].(string); ok {
				patterns = append(patterns, dirPattern(dir))
			}
		}
	}
	return patterns
}

func detectJavaScriptOutputs(root string) []string {
	var patterns []string

	if data, err := os.ReadFile(filepath.Join(root, "package.json")); err == nil {
		var pkg map[string]interface{}
		if json.Unmarshal(data, &pkg) == nil {
			if scripts, ok := pkg["scripts"].(map[string]interface{}); ok {
				for _, script := range scripts {
					str, ok := script.(string)
					if !ok {
						continue
					}
					patterns = append(patterns, outDirFromScript(str)...)
				}
			}
			if build, ok := pkg["build"].(map[string]interface{}); ok {
				if dir, ok := build["outDir"].(string); ok {
					patterns = append(patterns, dirPattern(dir))
				}
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, "tsconfig.json")); err == nil {
		var tsconfig map[string]interface{}
		if json.Unmarshal(data, &tsconfig) == nil {
			if opts, ok := tsconfig["compilerOptions"].(map[string]interface{}); ok {
				if dir, ok := opts["outDir"].(string); ok {
					patterns = append(patterns, dirPattern(dir))
				}
			}
		}
	}

	return patterns
}

func detectPythonOutputs(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
	if err != nil {
		return nil
	}
	var pyproject map[string]interface{}
	if toml.Unmarshal(data, &pyproject) != nil {
		return nil
	}

	var patterns []string
	if tool, ok := pyproject["tool"].(map[string]interface{}); ok {
		if poetry, ok := tool["poetry"].(map[string]interface{}); ok {
			if build, ok := poetry["build"].(map[string]interface{}); ok {
				if dir, ok := build["target-dir"].(string); ok {
					patterns = append(patterns, dirPattern(dir))
				}
			}
		}
	}
	return patterns
}

// outDirFromScript pulls --outDir arguments out of a build script line.
func outDirFromScript(script string) []string {
	if !strings.Contains(script, "outDir") {
		return nil
	}
	var patterns []string
	parts := strings.Fields(script)
	for i, part := range parts {
		if (part == "--outDir" || part == "-outDir") && i+1 < len(parts) {
			dir := strings.Trim(parts[i+1], `"'`)
			if dir != "" {
				patterns = append(patterns, dirPattern(dir))
			}
		}
	}
	return patterns
}

func dirPattern(dir string) string {
	dir = strings.Trim(filepath.ToSlash(dir), "/")
	return "**/" + dir + "/**"
}

func dedupePatterns(patterns []string) []string {
	if len(patterns) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
