package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// defaultsFileName is the optional project-local file CLI flags override.
const defaultsFileName = ".watchstats.kdl"

// LoadDefaultsFile reads defaultsFileName from dir, if present. A missing
// file is not an error — it returns (nil, nil) and the caller proceeds with
// CLI flags and Defaults() alone.
func LoadDefaultsFile(dir string) (*Config, error) {
	path := filepath.Join(dir, defaultsFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := &Config{}
	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "watch_path":
			if s, ok := firstStringArg(n); ok {
				cfg.WatchPath = s
			}
		case "workers":
			if v, ok := firstIntArg(n); ok {
				cfg.Workers = v
			}
		case "queue_capacity":
			if v, ok := firstIntArg(n); ok {
				cfg.QueueCapacity = v
			}
		case "report_interval":
			if v, ok := firstIntArg(n); ok {
				cfg.ReportIntervalSec = v
			}
		case "topk":
			if v, ok := firstIntArg(n); ok {
				cfg.TopK = v
			}
		case "chunk_size":
			if v, ok := firstIntArg(n); ok {
				cfg.ChunkSize = v
			}
		case "dequeue_timeout_ms":
			if v, ok := firstIntArg(n); ok {
				cfg.DequeueTimeoutMs = v
			}
		case "extensions":
			cfg.Extensions = collectStringArgs(n)
		case "exclude":
			cfg.Exclude = collectStringArgs(n)
		case "quiet":
			if b, ok := firstBoolArg(n); ok {
				cfg.Quiet = b
			}
		}
	}
	return cfg, nil
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
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs reads either inline arguments (`extensions ".log" ".txt"`)
// or block children (`exclude { "**/tmp/**" }`) into a flat string slice.
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
