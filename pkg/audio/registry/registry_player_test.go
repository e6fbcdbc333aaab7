package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xaionaro-go/shiftalign/pkg/audio/types"
)

type factoryA struct{}

func (factoryA) NewPlayerPCM() (types.PlayerPCM, error) { return nil, nil }

type factoryB struct{}

func (factoryB) NewPlayerPCM() (types.PlayerPCM, error) { return nil, nil }

type factoryC struct{}

func (*factoryC) NewPlayerPCM() (types.PlayerPCM, error) { return nil, nil }

func TestPlayerFactories(t *testing.T) {
	RegisterPlayerFactory(10, factoryB{})
	RegisterPlayerFactory(10, factoryA{})
	RegisterPlayerFactory(20, &factoryC{})

	factories := PlayerFactories()
	assert.Equal(t, []PlayerPCMFactory{&factoryC{}, factoryA{}, factoryB{}}, factories)

	assert.Panics(t, func() { RegisterPlayerFactory(1, factoryA{}) })
	assert.Panics(t, func() { RegisterPlayerFactory(1, &factoryC{}) })
}
