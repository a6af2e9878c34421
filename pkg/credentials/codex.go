package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ReadCodexAuthFile reads the Codex CLI auth file and returns its contents
// and path. The directory honors CODEX_HOME, defaulting to ~/.codex.
// Returns nil, "" when no readable file exists, which callers treat as
// nothing to patch.
func ReadCodexAuthFile() ([]byte, string) {
	dir := os.Getenv("CODEX_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, ""
		}
		dir = filepath.Join(home, ".codex")
	}

	authPath := filepath.Join(dir, "auth.json")
	data, err := os.ReadFile(authPath)
	if err != nil {
		return nil, ""
	}

	return data, authPath
}

// PatchCodexAuthKey sets OPENAI_API_KEY in the codex auth JSON and returns
// the updated bytes. Every other entry is preserved, an existing login
// session included: scaffolding adds credentials, it never removes them.
// Returns nil, false if the JSON cannot be processed.
func PatchCodexAuthKey(data []byte, apiKey string) ([]byte, bool) {
	var auth map[string]json.RawMessage
	if err := json.Unmarshal(data, &auth); err != nil {
		return nil, false
	}

	keyJSON, err := json.Marshal(apiKey)
	if err != nil {
		return nil, false
	}
	auth["OPENAI_API_KEY"] = keyJSON

	updated, err := json.MarshalIndent(auth, "", "  ")
	if err != nil {
		return nil, false
	}

	return updated, true
}
