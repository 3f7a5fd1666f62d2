package tree

import (
	"context"
	"net"
	"strings"
	"sync"

	"golang.org/x/net/idna"
)

// remoteWorkspaceSuffixes are the authority suffixes that identify a hosted
// remote-workspaces environment.
var remoteWorkspaceSuffixes = []string{
	"github.dev",
	"githubpreview.dev",
	"codespaces.new",
}

// EnvCache holds the memoized environment classification. It is write-once
// in normal operation but exposes Invalidate so tests can reset it between
// cases instead of relying on process restart.
type EnvCache struct {
	mu  sync.Mutex
	val *bool
}

func NewEnvCache() *EnvCache { return &EnvCache{} }

// Peek returns the cached classification without triggering a probe.
func (c *EnvCache) Peek() (value, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.val == nil {
		return false, false
	}
	return *c.val, true
}

func (c *EnvCache) set(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.val = &v
}

// Invalidate clears the cache so the next Classify probes again.
func (c *EnvCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.val = nil
}

// ProbeFunc resolves the canonical form of the callback host. The default
// follows the CNAME chain via the system resolver.
type ProbeFunc func(ctx context.Context, host string) (string, error)

func resolveCanonicalHost(ctx context.Context, host string) (string, error) {
	cname, err := net.DefaultResolver.LookupCNAME(ctx, host)
	if err != nil {
		return "", err
	}
	return cname, nil
}

// EnvClassifier answers "is this process running in the hosted
// remote-workspaces environment". The answer is assumed static for the
// process lifetime: the first successful probe is cached and returned
// immediately thereafter. Concurrent first calls may each probe, as the probe
// is idempotent and every racer writes the same value, so no coalescing is
// needed. A failed probe is never cached; callers treat the error as
// "unknown, retry on next access".
type EnvClassifier struct {
	cache *EnvCache
	host  string
	probe ProbeFunc
}

// NewEnvClassifier builds a classifier probing callbackHost through the given
// cache. A nil probe selects the default resolver-backed one.
func NewEnvClassifier(cache *EnvCache, callbackHost string, probe ProbeFunc) *EnvClassifier {
	if probe == nil {
		probe = resolveCanonicalHost
	}
	return &EnvClassifier{cache: cache, host: callbackHost, probe: probe}
}

// Classify returns the environment classification, probing at most until the
// first success.
func (c *EnvClassifier) Classify(ctx context.Context) (bool, error) {
	if v, ok := c.cache.Peek(); ok {
		return v, nil
	}
	canonical, err := c.probe(ctx, c.host)
	if err != nil {
		return false, err
	}
	v := isRemoteWorkspaceHost(canonical)
	c.cache.set(v)
	return v, nil
}

// Peek returns the cached classification, if any, without probing.
func (c *EnvClassifier) Peek() (value, ok bool) { return c.cache.Peek() }

// isRemoteWorkspaceHost reports whether a host's authority falls under one of
// the known remote-workspace suffixes. Hosts are IDNA-normalized first so
// unicode spellings cannot dodge the suffix check.
func isRemoteWorkspaceHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	for _, suffix := range remoteWorkspaceSuffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}
