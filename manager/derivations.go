package manager

import (
	"encoding/json"
	"errors"

	"github.com/Velocidex/ordereddict"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

var (
	parsePacketError  = errors.New("Unable to parse packet")
	emptyPayloadError = errors.New("empty payload ?")
)

// parsePacketPayload tries to decode a network syscall buffer as an
// IP packet and returns it as a dict of layers. The layer 3 version
// is sniffed from the first nibble of the payload.
func parsePacketPayload(payload []byte) (*ordereddict.Dict, error) {
	if len(payload) < 1 {
		return nil, emptyPayloadError
	}

	var layer3Type gopacket.LayerType
	switch payload[0] >> 4 {
	case 4:
		layer3Type = layers.LayerTypeIPv4
	case 6:
		layer3Type = layers.LayerTypeIPv6
	default:
		return nil, parsePacketError
	}

	packet := gopacket.NewPacket(payload, layer3Type, gopacket.NoCopy)
	if packet == nil || packet.ErrorLayer() != nil {
		return nil, parsePacketError
	}

	result := ordereddict.NewDict()
	var last_payload []byte
	for _, layer := range packet.Layers() {
		// Convert the layer to a dict.
		serialized, err := json.Marshal(layer)
		if err != nil {
			continue
		}

		res := ordereddict.NewDict()
		err = res.UnmarshalJSON(serialized)
		if err != nil {
			continue
		}

		res.Delete("Contents")
		res.Delete("Payload")
		res.Delete("Padding")

		result.Set(layer.LayerType().String(), res)
		last_payload = layer.LayerPayload()
	}

	result.Set("FinalPayload", last_payload)
	return result, nil
}
