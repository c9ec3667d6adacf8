package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/hansl-tools/hanslint/pkg/lint"
)

// ContentHash returns the hex SHA-256 of a file's bytes.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// RulesHash fingerprints the effective rule configuration. Two runs with
// the same hash apply exactly the same checks, so cached results remain
// valid across them.
func RulesHash(version string, ruleIDs []string, cfg *lint.Config) string {
	type fingerprint struct {
		Version  string                    `json:"version"`
		Rules    []string                  `json:"rules"`
		Disabled []string                  `json:"disabled,omitempty"`
		Severity map[string]string         `json:"severity,omitempty"`
		Options  map[string]map[string]any `json:"options,omitempty"`
	}

	fp := fingerprint{Version: version, Rules: append([]string(nil), ruleIDs...)}
	sort.Strings(fp.Rules)

	if cfg != nil {
		for id, disabled := range cfg.DisabledRules {
			if disabled {
				fp.Disabled = append(fp.Disabled, id)
			}
		}
		sort.Strings(fp.Disabled)

		if len(cfg.SeverityOverrides) > 0 {
			fp.Severity = make(map[string]string, len(cfg.SeverityOverrides))
			for id, sev := range cfg.SeverityOverrides {
				fp.Severity[id] = sev.String()
			}
		}
		fp.Options = cfg.RuleOptions
	}

	// json.Marshal emits map keys in sorted order, so the encoding is
	// deterministic for equal configurations.
	data, _ := json.Marshal(fp)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
