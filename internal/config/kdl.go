package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	sgerrors "github.com/standardbeagle/sgrep/internal/errors"
)

// applyKDLFile layers one .sgrep.kdl file onto cfg. A missing file is not
// an error; a malformed one is.
func applyKDLFile(cfg *Config, path string) error {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return sgerrors.NewFileError("read", path, err)
	}
	return applyKDL(cfg, string(content))
}

func applyKDL(cfg *Config, content string) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return sgerrors.NewConfigError("kdl", "", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "search":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "kinds":
					if s, ok := firstStringArg(cn); ok {
						cfg.Search.Kinds = s
					}
				case "case":
					if s, ok := firstStringArg(cn); ok {
						cfg.Search.Case = s
					}
				case "whole_word":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Search.WholeWord = b
					}
				case "max_count":
					if v, ok := firstIntArg(cn); ok {
						cfg.Search.MaxCount = v
					}
				case "workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Search.Workers = v
					}
				}
			}
		case "walk":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_file_size":
					// Accepts a byte count or a size string like "10MB".
					if len(cn.Arguments) == 0 {
						break
					}
					switch v := cn.Arguments[0].Value.(type) {
					case int64:
						cfg.Walk.MaxFileSize = v
					case float64:
						cfg.Walk.MaxFileSize = int64(v)
					case string:
						sz, err := ParseSize(v)
						if err != nil {
							return sgerrors.NewConfigError("walk.max_file_size", v, err)
						}
						cfg.Walk.MaxFileSize = sz
					default:
						log.Printf("WARNING: invalid value for 'max_file_size' in KDL config, expected size but got %T", v)
					}
				case "follow_symlinks":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Walk.FollowSymlinks = b
					}
				case "artifact_detection":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Walk.ArtifactDetection = b
					}
				case "exclude":
					cfg.Walk.Exclude = append(cfg.Walk.Exclude, collectStringArgs(cn)...)
				}
			}
		case "watch":
			for _, cn := range n.Children {
				if nodeName(cn) == "debounce_ms" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Watch.DebounceMs = v
					}
				}
			}
		case "exclude":
			// Top-level shorthand for walk { exclude ... }.
			cfg.Walk.Exclude = append(cfg.Walk.Exclude, collectStringArgs(n)...)
		}
	}

	return nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		log.Printf("WARNING: invalid value for '%s' in KDL config, expected number but got %T", nodeName(n), v)
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	log.Printf("WARNING: invalid value for '%s' in KDL config, expected string but got %T", nodeName(n), n.Arguments[0].Value)
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	log.Printf("WARNING: invalid value for '%s' in KDL config, expected boolean but got %T", nodeName(n), n.Arguments[0].Value)
	return false, false
}

// collectStringArgs gathers strings from inline arguments, or from child
// nodes when the block form is used. In the block form the node name
// itself carries the string value.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}

// ParseSize reads a human size such as "10MB", "512KB", or a bare byte
// count.
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		multiplier = 1
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}

	return num * multiplier, nil
}
