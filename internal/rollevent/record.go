package rollevent

import (
	"encoding/json"
	"fmt"

	"github.com/lox/crapsdice/internal/dice"
)

// Record type names used in the newline-delimited JSON form.
const (
	typeNatural = "natural"
	typeCraps   = "craps"
	typePoint   = "point"
	typeRoll    = "roll"
)

// PointArgs carries the flags of a point record. Exactly one flag is true.
type PointArgs struct {
	IsEstablished bool `json:"is_established"`
	IsWon         bool `json:"is_won"`
	IsLost        bool `json:"is_lost"`
	PointValue    int  `json:"point_value"`
}

// Record is the serialized shape of a RollEvent:
// {"type": ..., "dice": [d1, d2], "value": n, "args": {...}}.
type Record struct {
	Type  string     `json:"type"`
	Dice  [2]int     `json:"dice"`
	Value int        `json:"value"`
	Args  *PointArgs `json:"args"`
}

// ToRecord converts the event to its record form.
func (e RollEvent) ToRecord() Record {
	rec := Record{Dice: e.Dice.Faces(), Value: e.Value()}
	switch e.Kind {
	case Natural:
		rec.Type = typeNatural
	case Craps:
		rec.Type = typeCraps
	case Roll:
		rec.Type = typeRoll
	case PointEstablished, PointWon, PointLost:
		rec.Type = typePoint
		rec.Args = &PointArgs{
			IsEstablished: e.Kind == PointEstablished,
			IsWon:         e.Kind == PointWon,
			IsLost:        e.Kind == PointLost,
			PointValue:    int(e.Point),
		}
	default:
		panic(fmt.Sprintf("rollevent: unknown kind %d", e.Kind))
	}
	return rec
}

// FromRecord validates a record and converts it back into an event.
func FromRecord(rec Record) (RollEvent, error) {
	r, err := dice.New(rec.Dice[0], rec.Dice[1])
	if err != nil {
		return RollEvent{}, err
	}
	if rec.Value != 0 && rec.Value != r.Value() {
		return RollEvent{}, fmt.Errorf("record value %d does not match dice %s", rec.Value, r)
	}
	ev := RollEvent{Dice: r}
	switch rec.Type {
	case typeNatural:
		ev.Kind = Natural
	case typeCraps:
		ev.Kind = Craps
	case typeRoll:
		ev.Kind = Roll
	case typePoint:
		if rec.Args == nil {
			return RollEvent{}, fmt.Errorf("point record without args")
		}
		n := 0
		for _, f := range []bool{rec.Args.IsEstablished, rec.Args.IsWon, rec.Args.IsLost} {
			if f {
				n++
			}
		}
		if n != 1 {
			return RollEvent{}, fmt.Errorf("point record must set exactly one flag, has %d", n)
		}
		switch {
		case rec.Args.IsEstablished:
			ev.Kind = PointEstablished
		case rec.Args.IsWon:
			ev.Kind = PointWon
		default:
			ev.Kind = PointLost
		}
		ev.Point = Point(rec.Args.PointValue)
		if ev.Point == NoPoint && ev.Kind != PointLost {
			// Older records omit point_value; established and won points are
			// always the roll itself.
			ev.Point = Point(r.Value())
		}
		if ev.Point != NoPoint && !IsPointNumber(int(ev.Point)) {
			return RollEvent{}, fmt.Errorf("invalid point value %d", ev.Point)
		}
		if (ev.Kind == PointEstablished || ev.Kind == PointWon) && int(ev.Point) != r.Value() {
			return RollEvent{}, fmt.Errorf("point %d does not match roll %s", ev.Point, r)
		}
	default:
		return RollEvent{}, fmt.Errorf("unknown event type %q", rec.Type)
	}
	return ev, nil
}

// MarshalJSON implements json.Marshaler.
func (e RollEvent) MarshalJSON() ([]byte, error) {
	rec := e.ToRecord()
	if rec.Args == nil {
		// Non-point events carry an empty args object.
		return json.Marshal(struct {
			Type  string         `json:"type"`
			Dice  [2]int         `json:"dice"`
			Value int            `json:"value"`
			Args  map[string]any `json:"args"`
		}{rec.Type, rec.Dice, rec.Value, map[string]any{}})
	}
	return json.Marshal(rec)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *RollEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type  string          `json:"type"`
		Dice  [2]int          `json:"dice"`
		Value int             `json:"value"`
		Args  json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rec := Record{Type: raw.Type, Dice: raw.Dice, Value: raw.Value}
	if raw.Type == typePoint && len(raw.Args) > 0 {
		rec.Args = &PointArgs{}
		if err := json.Unmarshal(raw.Args, rec.Args); err != nil {
			return fmt.Errorf("decoding point args: %w", err)
		}
	}
	ev, err := FromRecord(rec)
	if err != nil {
		return err
	}
	*e = ev
	return nil
}
