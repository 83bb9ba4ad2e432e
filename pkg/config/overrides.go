package config

import "strings"

// CommandOverride returns the command configured at <phase>.<ecosystem>,
// either as a plain string or as the "command" key of a mapping. Generated
// configs write these; when present they replace the built-in recipe for
// that ecosystem and phase.
func CommandOverride(s Settings, phase, ecosystem string) (string, bool) {
	section := s.Section(phase)
	var cmd string
	switch v := section[ecosystem].(type) {
	case string:
		cmd = v
	case map[string]any, Settings:
		cmd = section.Section(ecosystem).String("command", "")
	}
	cmd = strings.TrimSpace(cmd)
	return cmd, cmd != ""
}
