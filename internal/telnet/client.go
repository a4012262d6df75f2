package telnet

import "github.com/stlalpha/telnetcore/internal/config"

// NewClientConnection builds a Connection in the client role from a
// loaded config.Config record, using ClientPolicy() unless policy is
// non-nil.
func NewClientConnection(transport Transport, rec config.Config, policy *Policy) *Connection {
	return NewConnection(SideClient, transport, fromRecord(rec), policy)
}
