package faucet

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

type EventKind string

const (
	EventMint EventKind = "MintEvent"
	EventBurn EventKind = "BurnEvent"
)

var (
	MintEventDiscriminator = discriminator("event", string(EventMint))
	BurnEventDiscriminator = discriminator("event", string(EventBurn))
)

// Event is emitted after a successful mint or burn. Account is the token
// account credited or debited.
type Event struct {
	Kind    EventKind        `json:"kind"`
	Account solana.PublicKey `json:"account"`
	Amount  uint64           `json:"amount"`
}

func (e Event) MarshalWithEncoder(encoder *bin.Encoder) error {
	var disc [8]byte
	switch e.Kind {
	case EventMint:
		disc = MintEventDiscriminator
	case EventBurn:
		disc = BurnEventDiscriminator
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Kind)
	}
	if err := encoder.WriteBytes(disc[:], false); err != nil {
		return err
	}
	if err := encoder.WriteBytes(e.Account[:], false); err != nil {
		return err
	}
	return encoder.WriteUint64(e.Amount, binary.LittleEndian)
}

func (e *Event) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	raw, err := decoder.ReadNBytes(8)
	if err != nil {
		return err
	}
	var disc [8]byte
	copy(disc[:], raw)
	switch disc {
	case MintEventDiscriminator:
		e.Kind = EventMint
	case BurnEventDiscriminator:
		e.Kind = EventBurn
	default:
		return fmt.Errorf("%w: discriminator %x", ErrUnknownEvent, disc)
	}

	key, err := decoder.ReadNBytes(32)
	if err != nil {
		return err
	}
	e.Account = solana.PublicKeyFromBytes(key)
	e.Amount, err = decoder.ReadUint64(binary.LittleEndian)
	return err
}

func EncodeEvent(e Event) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeEvent(data []byte) (*Event, error) {
	e := new(Event)
	if err := bin.NewBorshDecoder(data).Decode(e); err != nil {
		return nil, err
	}
	return e, nil
}

const (
	logPrefix  = "Program log: "
	dataPrefix = "Program data: "
)

// ParseEvents extracts the faucet events from transaction logs. Only data
// written while programID is the innermost executing program is decoded, so
// a program that logs look-alike bytes cannot forge events.
func ParseEvents(programID solana.PublicKey, logs []string) ([]Event, error) {
	var (
		target = programID.String()
		stack  []string
		events []Event
	)
	for _, line := range logs {
		switch {
		case strings.HasPrefix(line, logPrefix):
		case strings.HasPrefix(line, dataPrefix):
			if len(stack) == 0 || stack[len(stack)-1] != target {
				continue
			}
			for _, chunk := range strings.Fields(strings.TrimPrefix(line, dataPrefix)) {
				raw, err := base64.StdEncoding.DecodeString(chunk)
				if err != nil {
					return nil, fmt.Errorf("decode program data: %w", err)
				}
				ev, err := DecodeEvent(raw)
				if err != nil {
					continue
				}
				events = append(events, *ev)
			}
		case strings.HasPrefix(line, "Program "):
			// Frame lines are "Program <id> invoke [n]", "Program <id> success"
			// and "Program <id> failed: <reason>".
			fields := strings.Fields(line)
			if len(fields) < 3 {
				continue
			}
			switch {
			case fields[2] == "invoke":
				stack = append(stack, fields[1])
			case fields[2] == "success" || strings.HasPrefix(fields[2], "failed"):
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
		}
	}
	return events, nil
}
