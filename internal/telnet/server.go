package telnet

import "github.com/stlalpha/telnetcore/internal/config"

// NewServerConnection builds a Connection in the server role from a
// loaded config.Config record, using ServerPolicy() unless policy is
// non-nil.
func NewServerConnection(transport Transport, rec config.Config, policy *Policy) *Connection {
	return NewConnection(SideServer, transport, fromRecord(rec), policy)
}

// fromRecord translates the CLI-surface config.Config into the
// internal Config this package's Connection consumes.
func fromRecord(rec config.Config) Config {
	return Config{
		Encoding:       rec.Encoding,
		EncodingFalse:  rec.Encoding == "false",
		EncodingErrors: rec.EncodingErrors,
		ForceBinary:    rec.ForceBinary,
		ConnectMinWait: rec.ConnectMinWaitDuration(),
		ConnectMaxWait: rec.ConnectMaxWaitDuration(),
		Limit:          rec.Limit,
		Term:           rec.Term,
		Cols:           uint16(rec.Cols),
		Rows:           uint16(rec.Rows),
		TSpeed:         rec.TSpeed,
		XDisploc:       rec.XDisploc,
		Lang:           rec.Lang,
		SendEnviron:    rec.SendEnviron,
		AlwaysDo:       rec.AlwaysDo,
		AlwaysWill:     rec.AlwaysWill,
	}
}
