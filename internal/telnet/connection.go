package telnet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stlalpha/telnetcore/internal/telnet/telnetlog"
)

// Side distinguishes the two roles that share one negotiation engine:
// the same negotiation engine runs on both ends, with differences
// confined to policy.
type Side int

const (
	SideServer Side = iota
	SideClient
)

// Config carries the core-visible configuration record. Tooling binds
// a CLI or config file to this struct; the core never parses flags
// itself.
type Config struct {
	Encoding       string // charset name, or "" for ASCII default
	EncodingFalse  bool   // true selects the ASCII codec regardless of Encoding; WriteText still translates line endings
	EncodingErrors string // strict | replace | ignore

	ForceBinary bool

	ConnectMinWait time.Duration
	ConnectMaxWait time.Duration

	Limit int // reader buffer size L; 0 selects DefaultLimit

	Term      string
	Cols      uint16
	Rows      uint16
	TSpeed    string
	XDisploc  string
	Lang      string

	SendEnviron []string
	AlwaysDo    []string
	AlwaysWill  []string
}

// Connection is the connection task: the single owner of a session's
// parser, option machine, sub-negotiation state, reader, writer, and
// waiter. Exactly one goroutine may drive Feed for a given
// Connection at a time; the type itself performs no internal locking
// beyond what Reader/Writer/Waiter already provide for
// cross-goroutine consumption of their public surface.
type Connection struct {
	ID uuid.UUID

	side      Side
	transport Transport
	cfg       Config

	parser  *Parser
	options *OptionMachine
	policy  *Policy
	Reader  *Reader
	Writer  *Writer
	Waiter  *Waiter

	codec *Codec

	ttype     *TTYPETracker
	linemode  SLCTable
	forward   *Forwardmask
	localMode byte
	remoteMode byte

	naws struct{ cols, rows uint16 }

	// Events receives every application-visible Event the connection
	// produces, in wire order. The connection task sends to this
	// channel synchronously as part of Feed; callers must keep it
	// drained.
	Events chan Event
}

// NewConnection creates a connection task for the given side. policy
// defaults to ServerPolicy()/ClientPolicy() when nil.
func NewConnection(side Side, transport Transport, cfg Config, policy *Policy) *Connection {
	if policy == nil {
		if side == SideServer {
			policy = ServerPolicy()
		} else {
			policy = ClientPolicy()
		}
	}
	options := NewOptionMachine(policy)
	c := &Connection{
		ID:        uuid.New(),
		side:      side,
		transport: transport,
		cfg:       cfg,
		parser:    NewParser(),
		options:   options,
		policy:    policy,
		Reader:    NewReader(cfg.Limit),
		Writer:    NewWriter(transport, options),
		Waiter:    NewWaiter(options),
		ttype:     NewTTYPETracker(),
		linemode:  BSDSLCTable(),
		forward:   DefaultForwardmask16(),
		Events:    make(chan Event, 64),
	}
	if cfg.EncodingFalse {
		c.codec = NewCodec("ASCII")
	} else {
		c.codec = NewCodec(cfg.Encoding)
	}
	c.Writer.EnvironEncoding = c.codec
	if pol, ok := ParseErrorPolicy(cfg.EncodingErrors); ok {
		c.Writer.ErrorPolicy = pol
	}
	c.Reader.SetWatermarkHandler(func(high bool) {
		if high {
			transport.PauseReading()
		} else {
			transport.ResumeReading()
		}
	})
	return c
}

// Start sends the side's initial option offers plus any
// always_do/always_will extras from Config.
func (c *Connection) Start() {
	var wills, dos []byte
	if c.side == SideServer {
		wills = []byte{OptECHO, OptSGA, OptBINARY}
		dos = []byte{OptTTYPE, OptNAWS, OptNEW_ENVIRON, OptCHARSET, OptLINEMODE, OptTSPEED, OptXDISPLOC}
	} else {
		wills = []byte{OptTTYPE, OptNAWS, OptNEW_ENVIRON, OptTSPEED, OptXDISPLOC}
		dos = nil
	}
	if c.cfg.ForceBinary {
		wills = append(wills, OptBINARY)
		dos = append(dos, OptBINARY)
	}
	for _, name := range c.cfg.AlwaysWill {
		if opt, ok := OptionByName(name); ok {
			wills = append(wills, opt)
		}
	}
	for _, name := range c.cfg.AlwaysDo {
		if opt, ok := OptionByName(name); ok {
			dos = append(dos, opt)
		}
	}
	for _, opt := range wills {
		c.Writer.Negotiate(WILL, opt)
	}
	for _, opt := range dos {
		c.Writer.Negotiate(DO, opt)
	}
}

// Feed ingests transport bytes: runs the parser, drives the option
// machine and sub-negotiation codecs, and emits Events in wire order.
// Called exactly once per transport delivery by the owning task;
// feeding a byte into the parser is synchronous.
func (c *Connection) Feed(data []byte) {
	for _, raw := range c.parser.Feed(data) {
		c.dispatch(raw)
	}
}

func (c *Connection) dispatch(raw rawEvent) {
	switch raw.kind {
	case rawData:
		c.handleData(raw.data)

	case rawCommand:
		if raw.command == GA && c.options.LocalEnabled(OptSGA) && c.options.RemoteEnabled(OptSGA) {
			break
		}
		c.emit(Event{Kind: EventCommand, Command: raw.command})

	case rawNegotiation:
		c.handleNegotiation(raw.verb, raw.option)

	case rawSub:
		c.handleSub(raw.option, raw.sbPayload)

	case rawWarning:
		telnetlog.Warn("telnet: %s", raw.warning)
		c.emit(Event{Kind: EventWarning, Warning: raw.warning})
	}
}

// handleData feeds in-band bytes to the Reader and, in kludge line
// mode, derives SLC events from recognized control bytes.
func (c *Connection) handleData(data []byte) {
	if c.derivedMode() == ModeKludge {
		for _, b := range data {
			if fn, ok := KludgeSLCFunc(b); ok {
				c.emit(Event{Kind: EventSLC, SLCFunc: fn, SLCByte: b})
			}
		}
	}
	c.Reader.Feed(data)
}

func (c *Connection) derivedMode() Mode {
	return DeriveMode(c.options.LocalEnabled(OptLINEMODE) || c.options.RemoteEnabled(OptLINEMODE),
		c.localMode, c.remoteMode)
}

func (c *Connection) handleNegotiation(verb, opt byte) {
	outcome := c.options.ProcessVerb(verb, opt)
	if outcome.reply != nil {
		c.Writer.SendRaw(outcome.reply)
	}
	if outcome.event != nil {
		c.emit(*outcome.event)
	}
	c.Waiter.Signal()
	if outcome.onEnable != nil {
		c.onEnable(outcome.onEnable.opt, outcome.onEnable.local)
	}
}

// onEnable runs the side effects attached to an option transitioning
// to YES: issuing the first SEND/request that drives that option's
// sub-negotiation cycle.
func (c *Connection) onEnable(opt byte, local bool) {
	switch opt {
	case OptTTYPE:
		if !local && c.side == SideServer {
			c.Writer.SendSub(OptTTYPE, EncodeTTYPESend())
		}
	case OptNEW_ENVIRON:
		if !local && c.side == SideServer {
			c.Writer.SendSub(OptNEW_ENVIRON, EncodeEnvironSend(c.cfg.SendEnviron))
		}
	case OptTSPEED, OptXDISPLOC, OptSNDLOC:
		if !local && c.side == SideServer {
			c.Writer.SendSub(opt, EncodeSimpleSend())
		}
	case OptNAWS:
		if local && c.side == SideClient {
			c.Writer.SendSub(OptNAWS, EncodeNAWS(c.cfg.Cols, c.cfg.Rows))
		}
	case OptCHARSET:
		if local && c.side == SideClient {
			c.Writer.SendSub(OptCHARSET, EncodeCharsetRequest(' ', []string{c.codec.Name()}))
		}
	case OptLINEMODE:
		if c.side == SideServer {
			c.Writer.SendSub(OptLINEMODE, EncodeSLCTriples(slcDelta(c.linemode)))
			c.Writer.SendSub(OptLINEMODE, EncodeForwardmaskRequest(c.forward))
			c.Writer.SendSub(OptLINEMODE, EncodeLinemodeMode(DefaultLinemodeMode))
		}
	}
}

// slcDelta expands every slot of table whose mask or value is non-zero
// (DEFAULT-level slots included) into outbound SLC triples for the
// initial SLC handshake.
func slcDelta(table SLCTable) []SLCTriple {
	var out []SLCTriple
	for fn := byte(1); int(fn) < len(table); fn++ {
		d := table[fn]
		if d.Mask == 0 && d.Value == 0 {
			continue
		}
		out = append(out, SLCTriple{Func: fn, Flags: d.Mask, Value: d.Value})
	}
	return out
}

func (c *Connection) handleSub(opt byte, payload []byte) {
	c.emit(Event{Kind: EventSubnegotiation, SBOption: opt, SBPayload: payload})

	switch opt {
	case OptTTYPE:
		c.handleTTYPE(payload)
	case OptNAWS:
		if cols, rows, ok := DecodeNAWS(payload); ok {
			c.naws.cols, c.naws.rows = cols, rows
		}
	case OptNEW_ENVIRON:
		c.handleEnviron(payload)
	case OptCHARSET:
		c.handleCharset(payload)
	case OptLINEMODE:
		c.handleLinemode(payload)
	case OptLFLOW:
		if b, ok := DecodeLFlow(payload); ok && b == LflowRESTARTANY {
			c.Writer.XonAny = true
		}
	case OptTSPEED:
		c.handleSimple(opt, payload, c.cfg.TSpeed)
	case OptXDISPLOC:
		c.handleSimple(opt, payload, c.cfg.XDisploc)
	case OptSNDLOC:
		c.handleSimple(opt, payload, "")
	}
}

// handleSimple answers a SEND sub-negotiation for TSPEED/XDISPLOC/
// SNDLOC with an IS carrying our configured value; IS payloads from
// the peer were already surfaced via the EventSubnegotiation emitted
// in handleSub.
func (c *Connection) handleSimple(opt byte, payload []byte, value string) {
	cmd, _, ok := DecodeSimple(payload)
	if !ok || cmd != TelOptSEND {
		return
	}
	c.Writer.SendSub(opt, EncodeSimpleIs(value))
}

func (c *Connection) handleTTYPE(payload []byte) {
	cmd, name, ok := DecodeTTYPE(payload)
	if !ok {
		return
	}
	switch cmd {
	case TelOptIS:
		if c.ttype.Observe(name) {
			c.Writer.SendSub(OptTTYPE, EncodeTTYPESend())
		}
	case TelOptSEND:
		c.Writer.SendSub(OptTTYPE, EncodeTTYPEIs(c.cfg.Term))
	}
}

func (c *Connection) handleEnviron(payload []byte) {
	cmd, vars, ok := DecodeEnviron(payload)
	if !ok {
		return
	}
	if cmd == TelOptSEND {
		reply := make([]EnvVar, 0, len(c.cfg.SendEnviron))
		for _, name := range c.cfg.SendEnviron {
			if name == "LANG" {
				reply = append(reply, EnvVar{Name: "LANG", Value: c.cfg.Lang})
			}
		}
		c.Writer.SendSub(OptNEW_ENVIRON, EncodeEnvironIs(reply))
		return
	}
	_ = vars // delivered to the application via the EventSubnegotiation already emitted
}

func (c *Connection) handleCharset(payload []byte) {
	if len(payload) == 0 {
		return
	}
	switch payload[0] {
	case CharsetREQUEST:
		offered, ok := DecodeCharsetRequest(payload)
		if !ok {
			return
		}
		chosen, ok := ChooseCharset(offered, c.cfg.Encoding, Supported)
		if !ok {
			c.Writer.SendSub(OptCHARSET, EncodeCharsetRejected())
			return
		}
		c.codec = NewCodec(chosen)
		c.Writer.EnvironEncoding = c.codec
		c.Writer.SendSub(OptCHARSET, EncodeCharsetAccepted(chosen))
	case CharsetACCEPTED:
		if len(payload) > 1 {
			c.codec = NewCodec(string(payload[1:]))
			c.Writer.EnvironEncoding = c.codec
		}
	case CharsetREJECTED:
		telnetlog.Info("telnet: peer rejected charset offer")
	}
}

func (c *Connection) handleLinemode(payload []byte) {
	if mode, ok := DecodeLinemodeMode(payload); ok {
		if c.side == SideServer {
			c.remoteMode = mode
		} else {
			c.localMode = mode
		}
		if mode&ModeACK == 0 {
			c.Writer.SendSub(OptLINEMODE, EncodeLinemodeMode(mode|ModeACK))
		}
		return
	}
	if triples, ok := DecodeSLCTriples(payload); ok {
		var replies []SLCTriple
		for _, t := range triples {
			var reply *SLCTriple
			c.linemode, reply = ReconcileSLC(c.linemode, t)
			if reply != nil {
				replies = append(replies, *reply)
			}
		}
		if len(replies) > 0 {
			c.Writer.SendSub(OptLINEMODE, EncodeSLCTriples(replies))
		}
		return
	}
	if fm, ok := DecodeForwardmask(payload); ok {
		c.forward = fm
	}
}

func (c *Connection) emit(ev Event) {
	c.Events <- ev
}

// AwaitReady blocks until connect-time negotiation settles: ready
// when either no option negotiation has been pending for
// connect_minwait, or connect_maxwait elapses since AwaitReady was
// called, whichever comes first. Pending state is sampled at poll
// points, not at every transition.
func (c *Connection) AwaitReady(ctx context.Context) error {
	minWait := c.cfg.ConnectMinWait
	maxWait := c.cfg.ConnectMaxWait
	if minWait <= 0 {
		minWait = 50 * time.Millisecond
	}
	if maxWait <= 0 {
		maxWait = 2 * time.Second
	}
	deadline := time.Now().Add(maxWait)
	quietSince := time.Now()
	for {
		now := time.Now()
		if c.anyPending() {
			quietSince = now
		} else if now.Sub(quietSince) >= minWait {
			return nil
		}
		if !now.Before(deadline) {
			return nil
		}
		wait := minWait - now.Sub(quietSince)
		if rem := deadline.Sub(now); rem < wait {
			wait = rem
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Connection) anyPending() bool {
	for opt := range optionName {
		if c.options.LocalPending(opt) || c.options.RemotePending(opt) {
			return true
		}
	}
	return false
}

// Close releases the transport and marks the reader at EOF; further
// calls into this Connection after Close are invalid.
func (c *Connection) Close() error {
	c.Reader.SetEOF()
	return c.transport.Close()
}
