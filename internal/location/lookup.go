// Package location serves the state and district pick lists of the
// complaint form.
package location

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/JustJay7/consumer-complaint-assistant/internal/cache"
	"github.com/JustJay7/consumer-complaint-assistant/internal/llm"
	"github.com/JustJay7/consumer-complaint-assistant/pkg/logger"
)

type State struct {
	ID   int    `json:"state_id"`
	Name string `json:"state_name"`
}

type District struct {
	ID   int    `json:"district_id"`
	Name string `json:"district_name"`
}

// Districts is the district list for one state. ManualEntry tells the form
// to offer free text instead of a pick list.
type Districts struct {
	StateID     int        `json:"state_id"`
	Districts   []District `json:"districts"`
	ManualEntry bool       `json:"manualEntry"`
}

const statesPrompt = `List all 28 states and 8 union territories of India. Return ONLY a JSON array with no additional text, in this exact format:
["State1", "State2", "State3", ...]

Do not include any markdown, explanations, or additional formatting. Just the raw JSON array.`

const districtsPrompt = `List all major districts and cities in %s, India. Return ONLY a JSON array with no additional text, in this exact format:
["District1", "District2", "District3", ...]

Include all administrative districts. Do not include any markdown, explanations, or additional formatting. Just the raw JSON array.`

// listSettings keep list answers deterministic
var listSettings = &llm.Settings{Temperature: 0.1, MaxOutputTokens: 2048}

const statesKey = "states"

// Lookup answers state and district queries from the model, caching good
// answers and degrading to static data on failure
type Lookup struct {
	client    llm.Client
	states    cache.Cache[[]State]
	districts cache.Cache[[]District]
	timeout   time.Duration
	logger    *logger.Logger
}

// NewLookup caches model answers for ttl. Each model call is bounded by
// timeout; zero leaves it to the caller's context.
func NewLookup(client llm.Client, size int, ttl, timeout time.Duration, logger *logger.Logger) *Lookup {
	return &Lookup{
		client:    client,
		states:    cache.New[[]State](1, ttl),
		districts: cache.New[[]District](size, ttl),
		timeout:   timeout,
		logger:    logger,
	}
}

// States returns every state sorted by name. It never fails: the static
// table is returned when the model is unavailable.
func (l *Lookup) States(ctx context.Context) []State {
	if states, ok := l.states.Get(statesKey); ok {
		return slices.Clone(states)
	}

	names, err := l.ask(ctx, statesPrompt)
	if err != nil {
		l.logger.Warn("Using fallback states", "error", err)
		return FallbackStates()
	}

	states := numberStates(names)
	l.states.Set(statesKey, states)
	l.logger.Info("States loaded from model", "count", len(states))
	return slices.Clone(states)
}

// Districts returns the districts of stateID sorted by name, or an empty
// list flagged for manual entry when none can be produced
func (l *Lookup) Districts(ctx context.Context, stateID int) *Districts {
	key := cache.Key("districts", strconv.Itoa(stateID))
	if districts, ok := l.districts.Get(key); ok {
		return &Districts{StateID: stateID, Districts: slices.Clone(districts)}
	}

	manual := &Districts{StateID: stateID, Districts: []District{}, ManualEntry: true}

	states := l.States(ctx)
	idx := slices.IndexFunc(states, func(s State) bool { return s.ID == stateID })
	if idx < 0 {
		return manual
	}
	state := states[idx]

	names, err := l.ask(ctx, fmt.Sprintf(districtsPrompt, state.Name))
	if err != nil {
		l.logger.Warn("District lookup failed, manual entry required",
			"state", state.Name,
			"error", err,
		)
		return manual
	}

	districts := numberDistricts(stateID, names)
	l.districts.Set(key, districts)
	l.logger.Info("Districts loaded from model", "state", state.Name, "count", len(districts))
	return &Districts{StateID: stateID, Districts: slices.Clone(districts)}
}

// Clear forgets every cached answer
func (l *Lookup) Clear() {
	l.states.Clear()
	l.districts.Clear()
}

// CacheStats reports the states and districts caches
func (l *Lookup) CacheStats() map[string]cache.CacheStats {
	return map[string]cache.CacheStats{
		"states":    l.states.Stats(),
		"districts": l.districts.Stats(),
	}
}

func (l *Lookup) ask(ctx context.Context, prompt string) ([]string, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	reply, err := l.client.Generate(ctx, llm.Request{Prompt: prompt, Settings: listSettings})
	if err != nil {
		return nil, err
	}
	return parseNames(reply)
}

func sortNames(names []string) []string {
	sorted := slices.Clone(names)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return sorted
}

func numberStates(names []string) []State {
	sorted := sortNames(names)
	states := make([]State, len(sorted))
	for i, name := range sorted {
		states[i] = State{ID: i + 1, Name: name}
	}
	return states
}

func numberDistricts(stateID int, names []string) []District {
	sorted := sortNames(names)
	districts := make([]District, len(sorted))
	for i, name := range sorted {
		districts[i] = District{ID: stateID*1000 + i, Name: name}
	}
	return districts
}
