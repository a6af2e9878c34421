package credentials

// Credentials is the on-disk shape of credentials.toml inside the
// better-agents directory. Keys are stored per LLM provider id.
type Credentials struct {
	Version   int                           `toml:"version"`
	Providers map[string]ProviderCredential `toml:"providers"`
}

// ProviderCredential holds the API key for a single provider.
type ProviderCredential struct {
	APIKey string `toml:"api_key"`
}

// keyFor returns the stored key for a provider id, or "" when absent.
func (c *Credentials) keyFor(provider string) string {
	return c.Providers[provider].APIKey
}
