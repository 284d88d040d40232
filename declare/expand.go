package declare

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/readygate/gate"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

const dollarSentinel = "\x00READYGATE_DOLLAR\x00"

// expandDocument expands every scalar of a decoded document in place.
// Comments are never expanded, and an expanded value stays a single
// scalar whatever characters it contains.
func expandDocument(root *yaml.Node, lookup func(string) (string, bool)) error {
	missing := make(map[string]struct{})
	expandNode(root, lookupOrEnv(lookup), missing)
	return missingVariables(missing)
}

func expandNode(n *yaml.Node, lookup func(string) (string, bool), missing map[string]struct{}) {
	switch n.Kind {
	case yaml.ScalarNode:
		v := expandString(n.Value, lookup, missing)
		if v == n.Value {
			return
		}
		n.Value = v
		// A plain scalar resolves its type from the expanded text, so
		// `port: ${PORT}` still decodes as an integer.
		if n.Style&(yaml.TaggedStyle|yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) == 0 {
			n.Tag = ""
		}
	case yaml.DocumentNode, yaml.SequenceNode, yaml.MappingNode:
		for _, c := range n.Content {
			expandNode(c, lookup, missing)
		}
	}
}

// expandString replaces ${VAR} references in s using lookup and records
// the names lookup does not know in missing.
//
// Semantics:
//   - Only the braced form is expanded; bare $NAME is kept verbatim.
//   - `$$` emits a literal `$`.
func expandString(s string, lookup func(string) (string, bool), missing map[string]struct{}) string {
	if !strings.Contains(s, "$") {
		return s
	}
	s = strings.ReplaceAll(s, "$$", dollarSentinel)
	s = envVarPattern.ReplaceAllStringFunc(s, func(ref string) string {
		key := envVarPattern.FindStringSubmatch(ref)[1]
		v, ok := lookup(key)
		if !ok {
			missing[key] = struct{}{}
			return ref
		}
		return v
	})
	return strings.ReplaceAll(s, dollarSentinel, "$")
}

func missingVariables(missing map[string]struct{}) error {
	if len(missing) == 0 {
		return nil
	}
	keys := make([]string, 0, len(missing))
	for k := range missing {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return gate.Invalid("environment", "missing required environment variables: %s", strings.Join(keys, ", "))
}

func lookupOrEnv(lookup func(string) (string, bool)) func(string) (string, bool) {
	if lookup == nil {
		return os.LookupEnv
	}
	return lookup
}
