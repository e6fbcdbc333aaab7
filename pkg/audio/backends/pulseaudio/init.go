package pulseaudio

import (
	"github.com/xaionaro-go/shiftalign/pkg/audio/registry"
	"github.com/xaionaro-go/shiftalign/pkg/audio/types"
)

const (
	Priority = 100
)

func init() {
	registry.RegisterPlayerFactory(Priority, PlayerPCMPulseFactory{})
}

type PlayerPCMPulseFactory struct{}

func (PlayerPCMPulseFactory) NewPlayerPCM() (types.PlayerPCM, error) {
	return NewPlayerPCM()
}
