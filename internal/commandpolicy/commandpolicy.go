// Package commandpolicy decides whether a RUN directive's command is
// allowed to execute. It layers a project-specific ALLOWED_COMMANDS prefix
// list on top of two Agentkit checks every tool in the wider ecosystem
// already enforces: the workspace/denylist policy (agentkit/policy) and
// the tiered security verifier (agentkit/security) that backs the Master
// language's SECURITY directive.
package commandpolicy

import (
	"context"
	"strings"
	"sync"

	agentkitpolicy "github.com/vinayprograms/agentkit/policy"
	"github.com/vinayprograms/agentkit/security"
)

// Policy implements interpreter.CommandPolicy.
type Policy struct {
	pol     *agentkitpolicy.Policy
	allowed []string

	sessionID string

	mu       sync.Mutex
	paranoid bool
	verifier *security.Verifier
}

// Load reads policy.toml at path for the Agentkit workspace/denylist
// checks, and builds a default-mode security.Verifier scoped to
// sessionID. A missing policy.toml falls back to agentkit's permissive
// default, since the allow-list below is the real gate for this project.
// allowedCommands is this project's ALLOWED_COMMANDS list, e.g.
// "python -m pytest", "npm test", "git status".
func Load(path string, allowedCommands []string, sessionID string) *Policy {
	pol, err := agentkitpolicy.LoadFile(path)
	if err != nil {
		pol = agentkitpolicy.New()
	}

	p := &Policy{pol: pol, allowed: allowedCommands, sessionID: sessionID}
	p.verifier, _ = newVerifier(security.ModeDefault, sessionID)
	return p
}

// newVerifier builds a security.Verifier for mode. Untrusted is the
// correct default trust level here: RUN's input is whatever an LLM-driven
// agent decided to execute, not a human operator at a keyboard. Tier 2/3
// escalation (TriageProvider/SupervisorProvider) has no home in this
// project's single-LLM-per-run config, so static (Tier 1) checks are all
// that run; a nil verifier (on construction failure) means Allowed falls
// back to the ALLOWED_COMMANDS/workspace checks alone.
func newVerifier(mode security.Mode, sessionID string) (*security.Verifier, error) {
	return security.NewVerifier(security.Config{
		Mode:      mode,
		UserTrust: security.TrustUntrusted,
	}, sessionID)
}

// SetParanoid switches between the default prefix-matching allow-list and
// the Master language's SECURITY MODE="paranoid", which requires an exact
// match against an ALLOWED_COMMANDS entry and rebuilds the security
// verifier in security.ModeParanoid.
func (p *Policy) SetParanoid(paranoid bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paranoid == paranoid {
		return
	}
	p.paranoid = paranoid

	mode := security.ModeDefault
	if paranoid {
		mode = security.ModeParanoid
	}
	if v, err := newVerifier(mode, p.sessionID); err == nil {
		if p.verifier != nil {
			p.verifier.Destroy()
		}
		p.verifier = v
	}
}

// Allowed reports whether command, issued by the agent at agentPath, may
// run: it must match the ALLOWED_COMMANDS list (by prefix, or exactly
// under paranoid mode), clear the underlying workspace/denylist policy,
// and pass the security verifier's tool-call check.
func (p *Policy) Allowed(ctx context.Context, agentPath, command string) bool {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return false
	}
	if !p.matchesAllowList(trimmed) {
		return false
	}
	if allowed, _ := p.pol.CheckCommand("run", trimmed); !allowed {
		return false
	}
	return p.verifyToolCall(ctx, agentPath, trimmed)
}

func (p *Policy) verifyToolCall(ctx context.Context, agentPath, command string) bool {
	p.mu.Lock()
	verifier := p.verifier
	p.mu.Unlock()
	if verifier == nil {
		return true
	}

	result, err := verifier.VerifyToolCall(ctx, "run", map[string]interface{}{"command": command}, "", agentPath)
	if err != nil || result == nil || result.Tier1 == nil {
		return true
	}
	return result.Tier1.Pass
}

func (p *Policy) matchesAllowList(command string) bool {
	p.mu.Lock()
	paranoid := p.paranoid
	p.mu.Unlock()

	for _, prefix := range p.allowed {
		if paranoid {
			if command == prefix {
				return true
			}
			continue
		}
		if strings.HasPrefix(command, prefix) {
			return true
		}
	}
	return false
}
