package registry

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/xaionaro-go/shiftalign/pkg/audio/types"
)

type PlayerPCMFactory interface {
	NewPlayerPCM() (types.PlayerPCM, error)
}

type playerFactoryWithPriority struct {
	Priority int
	PlayerPCMFactory
}

var playerFactoryRegistry = map[reflect.Type]playerFactoryWithPriority{}

// RegisterPlayerFactory is expected to be called from init() of
// a backend package. Registering the same factory type twice panics.
func RegisterPlayerFactory(
	priority int,
	playerPCMFactory PlayerPCMFactory,
) {
	t := reflect.TypeOf(playerPCMFactory)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if _, ok := playerFactoryRegistry[t]; ok {
		panic(fmt.Errorf("a PlayerPCM factory of type %v is already registered", t))
	}
	playerFactoryRegistry[t] = playerFactoryWithPriority{
		Priority:         priority,
		PlayerPCMFactory: playerPCMFactory,
	}
}

// PlayerFactories returns the registered factories, highest priority first.
// Factories of equal priority are ordered by type name to keep the
// choice deterministic.
func PlayerFactories() []PlayerPCMFactory {
	type entry struct {
		name string
		playerFactoryWithPriority
	}
	entries := make([]entry, 0, len(playerFactoryRegistry))
	for t, factory := range playerFactoryRegistry {
		entries = append(entries, entry{
			name:                      t.String(),
			playerFactoryWithPriority: factory,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].name < entries[j].name
	})

	factories := make([]PlayerPCMFactory, 0, len(entries))
	for _, e := range entries {
		factories = append(factories, e.PlayerPCMFactory)
	}
	return factories
}
