// Package events supplies GameEvents from YAML decks. Decks are validated
// against a JSON schema before use and drawn with a seeded random source.
package events

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/talgya/ohi-sim/internal/engine"
	"github.com/talgya/ohi-sim/internal/entropy"
)

//go:embed events.yaml
var defaultDeck []byte

//go:embed event.schema.json
var schemaJSON []byte

const schemaURL = "event.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add event schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// normalize turns YAML into the JSON data model: string-keyed maps, float64
// numbers. Schema validation and typed decoding both run on this form.
func normalize(data []byte) ([]byte, any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parse event deck: %w", err)
	}
	js, err := json.Marshal(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("convert event deck: %w", err)
	}
	var doc any
	if err := json.Unmarshal(js, &doc); err != nil {
		return nil, nil, fmt.Errorf("convert event deck: %w", err)
	}
	return js, doc, nil
}

// Validate checks a YAML deck against the event schema and the engine's own
// shape rules.
func Validate(data []byte) error {
	_, err := Parse(data)
	return err
}

// Parse validates and decodes a YAML deck.
func Parse(data []byte) ([]engine.GameEvent, error) {
	js, doc, err := normalize(data)
	if err != nil {
		return nil, err
	}
	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("event deck schema: %w", err)
	}

	var f struct {
		Events []engine.GameEvent `json:"events"`
	}
	if err := json.Unmarshal(js, &f); err != nil {
		return nil, fmt.Errorf("decode event deck: %w", err)
	}
	seen := make(map[string]bool, len(f.Events))
	for _, ev := range f.Events {
		if seen[ev.ID] {
			return nil, fmt.Errorf("event deck: duplicate event id %q", ev.ID)
		}
		seen[ev.ID] = true
		if err := ev.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Events, nil
}

// Load reads and parses a deck file.
func Load(path string) ([]engine.GameEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event deck: %w", err)
	}
	evs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return evs, nil
}

// Default returns the built-in deck.
func Default() []engine.GameEvent {
	evs, err := Parse(defaultDeck)
	if err != nil {
		panic(fmt.Sprintf("embedded event deck: %v", err))
	}
	return evs
}

// Source supplies events to a running game.
type Source interface {
	Draw() (engine.GameEvent, bool)
}

// Deck draws events without replacement until exhausted, then reshuffles.
type Deck struct {
	events []engine.GameEvent
	src    *entropy.Source
	chance float64
	bag    []int
}

// NewDeck builds a deck over events. chance is the per-draw probability that
// any event fires at all.
func NewDeck(events []engine.GameEvent, src *entropy.Source, chance float64) *Deck {
	d := &Deck{
		events: make([]engine.GameEvent, len(events)),
		src:    src,
		chance: chance,
	}
	for i, ev := range events {
		d.events[i] = ev.Clone()
	}
	return d
}

// Len returns the number of distinct events in the deck.
func (d *Deck) Len() int { return len(d.events) }

func (d *Deck) refill() {
	d.bag = make([]int, len(d.events))
	for i := range d.bag {
		d.bag[i] = i
	}
	d.src.Shuffle(len(d.bag), func(i, j int) { d.bag[i], d.bag[j] = d.bag[j], d.bag[i] })
}

// Next returns the next event unconditionally.
func (d *Deck) Next() (engine.GameEvent, bool) {
	if len(d.events) == 0 {
		return engine.GameEvent{}, false
	}
	if len(d.bag) == 0 {
		d.refill()
	}
	i := d.bag[0]
	d.bag = slices.Delete(d.bag, 0, 1)
	return d.events[i].Clone(), true
}

// Draw rolls the trigger chance and returns an event when it hits.
func (d *Deck) Draw() (engine.GameEvent, bool) {
	if d.chance <= 0 || !d.src.Chance(d.chance) {
		return engine.GameEvent{}, false
	}
	return d.Next()
}
