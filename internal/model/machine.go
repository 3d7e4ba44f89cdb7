package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Machine is the single machine definition a Configuration owns. A
// machine declares through RequiresResolution whether its sub-objects
// hold references into the catalogs; the load sequence calls
// ResolveConfiguration on machines that do, after the catalogs are
// loaded.
type Machine interface {
	Type() string
	RequiresResolution() bool
	ResolveConfiguration(c *Configuration) error
}

// Registered machine type names, used as the document's type key.
const (
	MachineTypeReference = "reference"
	MachineTypeSimulated = "simulated"
)

var machineFactories = map[string]func() Machine{}

// RegisterMachineType makes a machine type available to the document
// decoder under the given name. Call it from an init function; a
// duplicate name panics, matching database/sql convention.
func RegisterMachineType(name string, factory func() Machine) {
	if _, dup := machineFactories[name]; dup {
		panic("model: RegisterMachineType called twice for " + name)
	}
	machineFactories[name] = factory
}

func init() {
	RegisterMachineType(MachineTypeReference, func() Machine { return &ReferenceMachine{} })
	RegisterMachineType(MachineTypeSimulated, func() Machine { return &SimulatedMachine{} })
}

// Feeder ties a pickup location on a ReferenceMachine to the part it
// supplies.
type Feeder struct {
	Name   string  `yaml:"name"`
	PartID string  `yaml:"part-id,omitempty"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`

	part *Part
}

// Part returns the resolved part this feeder supplies, or nil before the
// machine has been resolved. Feeders without a part-id stay nil.
func (f *Feeder) Part() *Part {
	return f.part
}

// ReferenceMachine models a physical machine whose feeders name parts by
// identifier. It requires a resolution pass to bind those references
// once the catalogs are loaded.
type ReferenceMachine struct {
	Feeders []*Feeder `yaml:"feeders,omitempty"`
}

func (m *ReferenceMachine) Type() string {
	return MachineTypeReference
}

func (m *ReferenceMachine) RequiresResolution() bool {
	return true
}

// ResolveConfiguration binds each feeder's part reference against the
// part catalog.
func (m *ReferenceMachine) ResolveConfiguration(c *Configuration) error {
	for _, feeder := range m.Feeders {
		if feeder.PartID == "" {
			continue
		}
		part, ok := c.Part(feeder.PartID)
		if !ok {
			return fmt.Errorf("feeder %s: %w: %s", feeder.Name, ErrUnknownPart, feeder.PartID)
		}
		feeder.part = part
	}
	return nil
}

// SimulatedMachine is a self-contained software machine used for running
// without hardware attached. It holds no references into the catalogs.
type SimulatedMachine struct {
	FeedRate    float64 `yaml:"feed-rate,omitempty"`
	PickDwellMs int     `yaml:"pick-dwell-ms,omitempty"`
}

func (m *SimulatedMachine) Type() string {
	return MachineTypeSimulated
}

func (m *SimulatedMachine) RequiresResolution() bool {
	return false
}

func (m *SimulatedMachine) ResolveConfiguration(c *Configuration) error {
	return nil
}

// machineNode decodes and encodes the polymorphic machine mapping. The
// document's type key selects a registered factory; the concrete type
// then decodes from the same mapping.
type machineNode struct {
	Machine Machine
}

func (n *machineNode) UnmarshalYAML(value *yaml.Node) error {
	var head struct {
		Type string `yaml:"type"`
	}
	if err := value.Decode(&head); err != nil {
		return err
	}
	factory, ok := machineFactories[head.Type]
	if !ok {
		return fmt.Errorf("unknown machine type %q", head.Type)
	}
	machine := factory()
	if err := value.Decode(machine); err != nil {
		return err
	}
	n.Machine = machine
	return nil
}

func (n machineNode) MarshalYAML() (any, error) {
	if n.Machine == nil {
		return nil, nil
	}
	var node yaml.Node
	if err := node.Encode(n.Machine); err != nil {
		return nil, err
	}
	node.Content = append([]*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "type"},
		{Kind: yaml.ScalarNode, Value: n.Machine.Type()},
	}, node.Content...)
	return &node, nil
}
