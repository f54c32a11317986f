package supervisor

import (
	"context"

	"github.com/relaymesh/etherrelay/internal/queue"
)

// Hooks is the capability set a worker thread may implement, per spec.md §9
// DESIGN NOTES: {on_pre_create, on_post_create, on_init, on_run, on_exit,
// on_message} expressed as an interface rather than nullable function
// pointers. Embed BaseHooks to get no-op defaults for whichever methods a
// given worker doesn't need.
type Hooks interface {
	OnPreCreate(cfg *Config) error
	OnPostCreate(cfg *Config)
	OnInit(ctx context.Context, cfg *Config) error
	OnRun(ctx context.Context, cfg *Config) error
	OnExit(ctx context.Context, cfg *Config)
	OnMessage(ctx context.Context, msg queue.Message) error
}

// BaseHooks implements Hooks with no-op/success defaults. Embed it in a
// concrete worker type and override only the methods that matter.
type BaseHooks struct{}

func (BaseHooks) OnPreCreate(*Config) error { return nil }
func (BaseHooks) OnPostCreate(*Config)      {}
func (BaseHooks) OnInit(context.Context, *Config) error { return nil }
func (BaseHooks) OnRun(context.Context, *Config) error  { return nil }
func (BaseHooks) OnExit(context.Context, *Config)       {}
func (BaseHooks) OnMessage(context.Context, queue.Message) error { return nil }
