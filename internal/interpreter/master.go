package interpreter

import (
	"context"
	"fmt"

	"github.com/vinayprograms/hma-agent/internal/agent"
	"github.com/vinayprograms/hma-agent/internal/directive"
)

// ExecuteMaster runs one Master-language directive against m, which must be
// the root agent. The Master language is the Manager language plus SECURITY;
// every other directive kind is delegated straight to ExecuteManager.
func ExecuteMaster(ctx context.Context, env *Env, m *agent.ManagerAgent, d directive.Directive) {
	if d.Kind == directive.KindSecurity {
		defer func() {
			if r := recover(); r != nil {
				m.Enqueue(fmt.Sprintf("Exception during execution: %v", r))
			}
		}()
		masterSecurity(env, m, d)
		env.record(m.Path(), string(d.Kind), "executed")
		return
	}

	ExecuteManager(ctx, env, m, d)
}

func masterSecurity(env *Env, m *agent.ManagerAgent, d directive.Directive) {
	switch d.SecurityMode {
	case "default", "paranoid":
		m.SetSecurityMode(d.SecurityMode)
		env.Commands.SetParanoid(d.SecurityMode == "paranoid")
		m.Enqueue(fmt.Sprintf("SECURITY succeeded: mode set to %s", d.SecurityMode))
	default:
		m.Enqueue(fmt.Sprintf("SECURITY failed: unknown mode %q", d.SecurityMode))
	}
}
