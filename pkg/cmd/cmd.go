// Package cmd is the transport-agnostic command core. A command has a name,
// a one-line description and a Run method; an adapter such as the Discord
// message dispatcher decides how it is invoked and what Data carries.
package cmd

import "context"

// Invocation is the input handed to a command.
type Invocation struct {
	// Name is the name the command was invoked under. It can differ from the
	// command's own name, e.g. when a quote is routed to the quote command.
	Name string
	Args []string
	Data any
}

// Command is implemented by everything that can be registered.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}

// Func adapts a plain function to Command.
type Func struct {
	CommandName string
	Desc        string
	Fn          func(ctx context.Context, inv *Invocation) error
}

func (f *Func) Name() string        { return f.CommandName }
func (f *Func) Description() string { return f.Desc }
func (f *Func) Run(ctx context.Context, inv *Invocation) error {
	return f.Fn(ctx, inv)
}
