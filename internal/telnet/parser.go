package telnet

import "github.com/stlalpha/telnetcore/internal/telnet/telnetlog"

// parseState is the Input Parser FSM state.
type parseState int

const (
	stData parseState = iota
	stIACCmd
	stIACOpt
	stIACSBOpt
	stSBData
	stSBIAC
)

// rawKind tags the low-level events the parser hands up to the
// Connection, which routes them to the Option State Machine or the
// sub-negotiation codecs.
type rawKind int

const (
	rawData rawKind = iota
	rawCommand
	rawNegotiation
	rawSub
	rawWarning
)

type rawEvent struct {
	kind rawKind

	data []byte // rawData

	command byte // rawCommand

	verb   byte // rawNegotiation: WILL/WONT/DO/DONT
	option byte // rawNegotiation, rawSub

	sbPayload []byte // rawSub

	warning string // rawWarning
}

// Parser is the byte-at-a-time state machine that separates in-band
// user data from out-of-band control. It is not safe for concurrent
// use; exactly one task owns a connection's parser.
type Parser struct {
	state    parseState
	sbOption byte
	sbBuf    []byte
	verb     byte // remembered WILL/WONT/DO/DONT while in stIACOpt
}

// NewParser creates a parser starting in the DATA state.
func NewParser() *Parser {
	return &Parser{state: stData}
}

// Feed ingests transport bytes and returns the raw events produced.
// Bytes that do not complete a sequence (a split IAC, an in-progress
// SB) are retained internally and completed on a subsequent Feed
// call — peer behavior may split IAC sequences across transport
// reads.
func (p *Parser) Feed(input []byte) []rawEvent {
	var out []rawEvent
	var dataRun []byte

	flushData := func() {
		if len(dataRun) > 0 {
			out = append(out, rawEvent{kind: rawData, data: dataRun})
			dataRun = nil
		}
	}

	i := 0
	for i < len(input) {
		b := input[i]
		i++

		switch p.state {
		case stData:
			if b != IAC {
				dataRun = append(dataRun, b)
				continue
			}
			flushData()
			p.state = stIACCmd

		case stIACCmd:
			flushData()
			switch {
			case b == IAC:
				// IAC IAC -> literal 0xFF data byte (escape rule).
				dataRun = append(dataRun, 0xFF)
				p.state = stData
			case b == NOP || b == DM || b == BRK || b == IP || b == AO ||
				b == AYT || b == EC || b == EL || b == GA || b == EOR:
				out = append(out, rawEvent{kind: rawCommand, command: b})
				p.state = stData
			case b == WILL || b == WONT || b == DO || b == DONT:
				p.verb = b
				p.state = stIACOpt
			case b == SB:
				p.state = stIACSBOpt
			case b == SE:
				out = append(out, rawEvent{kind: rawWarning, warning: "unsolicited SE"})
				telnetlog.Warn("telnet: unsolicited SE")
				p.state = stData
			default:
				out = append(out, rawEvent{kind: rawWarning, warning: "illegal 2-byte IAC command"})
				telnetlog.Warn("telnet: illegal 2-byte IAC command 0x%02x", b)
				p.state = stData
			}

		case stIACOpt:
			out = append(out, rawEvent{kind: rawNegotiation, verb: p.verb, option: b})
			p.state = stData

		case stIACSBOpt:
			p.sbOption = b
			p.sbBuf = p.sbBuf[:0]
			p.state = stSBData

		case stSBData:
			if b == IAC {
				p.state = stSBIAC
				continue
			}
			p.sbBuf = append(p.sbBuf, b)

		case stSBIAC:
			switch b {
			case IAC:
				p.sbBuf = append(p.sbBuf, 0xFF)
				p.state = stSBData
			case SE:
				out = append(out, rawEvent{
					kind:      rawSub,
					option:    p.sbOption,
					sbPayload: append([]byte(nil), p.sbBuf...),
				})
				p.sbBuf = p.sbBuf[:0]
				p.state = stData
			default:
				// SB interruption: discard the in-progress buffer so
				// that e.g. an inner IAC TM terminates the SB cleanly.
				out = append(out, rawEvent{kind: rawWarning, warning: "subnegotiation interrupted"})
				telnetlog.Warn("telnet: subnegotiation interrupted by IAC 0x%02x", b)
				p.sbBuf = p.sbBuf[:0]
				p.state = stData
				reinject := []byte{IAC, b}
				sub := p.Feed(reinject)
				out = append(out, sub...)
			}
		}
	}

	flushData()
	return out
}
