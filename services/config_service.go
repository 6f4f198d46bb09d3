package services

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// CredentialProvider hands out the Groq API key at call time.
type CredentialProvider interface {
	Key() (string, error)
}

// EnvCredentialProvider reads GROQ_API_KEY from the process environment with
// a .env file fallback. While no key is cached it re-reads both on every call,
// so a key added after startup is picked up without a restart.
type EnvCredentialProvider struct {
	mu  sync.Mutex
	key string
}

func NewEnvCredentialProvider() *EnvCredentialProvider {
	_ = godotenv.Load()
	return &EnvCredentialProvider{key: os.Getenv("GROQ_API_KEY")}
}

// Key returns the configured key, or a classified GenerationError when the
// key is absent or looks like it belongs to a different provider. A common
// mistake is pasting an OpenAI key (prefix "sk-") into GROQ_API_KEY.
func (p *EnvCredentialProvider) Key() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.key == "" {
		_ = godotenv.Load()
		p.key = os.Getenv("GROQ_API_KEY")
	}

	if p.key == "" {
		return "", &GenerationError{
			Kind: ErrMissingCredential,
			Message: "GROQ_API_KEY is not set.\n" +
				"PyGameCrafter needs a valid Groq API key in your .env file:\n" +
				"GROQ_API_KEY=your_real_groq_key_here",
		}
	}
	if strings.HasPrefix(p.key, "sk-") {
		return "", &GenerationError{
			Kind: ErrMalformedCredential,
			Message: "Your GROQ_API_KEY looks like an OpenAI key (starts with 'sk-').\n" +
				"PyGameCrafter uses Groq. Please create a Groq key and set it as GROQ_API_KEY.",
		}
	}
	return p.key, nil
}
