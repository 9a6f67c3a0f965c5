package sim

// State is an immutable snapshot of one agent plus the slice of world data
// its decisions depend on. Operations on a State always return a new value;
// the only mutation allowed after construction is the internal legal-action
// cache, which is scoped to a single State instance.
type State interface {
	LegalActions() []Action
	Apply(Action) State
	IsTerminal() bool
	Reward() float64
}

// Action is one transition an agent can take. Actions are immutable values;
// Key returns a stable identity used to report per-action statistics.
type Action interface {
	Kind() ActionKind
	Key() string
	TimeCost() int
}
