// Package greeting implements the greeting provider host module.
//
// The provider exposes a single host function, get-greeting, that returns a
// constant text value to the guest. It has no state and cannot fail; the only
// failure mode of the bridge is the string handoff itself, which belongs to
// the runtime layer.
package greeting

import "context"

// Message is the value returned by every invocation of get-greeting.
const Message = "Hello from C++"

// Namespace is the import interface name guests use to reach the provider.
const Namespace = "hello:greeter/provider"

// Provider implements the runtime Host interface. Exported methods are
// registered as host functions under Namespace; GetGreeting becomes
// "get-greeting".
type Provider struct{}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Namespace() string {
	return Namespace
}

// GetGreeting returns a fresh copy of Message. The context is the implicit
// calling-context handle and is never read. Safe for concurrent use.
func (p *Provider) GetGreeting(_ context.Context) string {
	return Message
}
