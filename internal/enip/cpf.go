package enip

import (
	"errors"
	"fmt"
)

// ItemType identifies a Common Packet Format item.
type ItemType uint16

const (
	ItemNullAddress      ItemType = 0x0000
	ItemConnectedAddress ItemType = 0x00A1
	ItemUnconnectedData  ItemType = 0x00B2
	ItemConnectedData    ItemType = 0x00B1
)

// Item is one entry of a CPF item list.
type Item struct {
	Type ItemType
	Data []byte
}

// CPF is the interface-handle/timeout/item-list structure carried
// inside SendRRData and SendUnitData payloads.
type CPF struct {
	InterfaceHandle uint32
	Timeout         uint16
	Items           []Item
}

// ErrShortCPF is returned when a buffer is too small to contain a
// valid CPF header or one of its declared items.
var ErrShortCPF = errors.New("enip: buffer too short for CPF item")

// DecodeCPF parses a CPF-framed payload. It tolerates items in any
// order; unknown item types are kept (not discarded) so a caller can
// still walk the full item list, but only UnconnectedData is
// meaningful to the CIP dispatcher.
func DecodeCPF(data []byte, order ByteOrder) (CPF, error) {
	bo := order.Binary()
	if len(data) < 8 {
		return CPF{}, fmt.Errorf("%w: header", ErrShortCPF)
	}
	cpf := CPF{
		InterfaceHandle: bo.Uint32(data[0:4]),
		Timeout:         bo.Uint16(data[4:6]),
	}
	count := int(bo.Uint16(data[6:8]))
	offset := 8
	for i := 0; i < count; i++ {
		if len(data) < offset+4 {
			return CPF{}, fmt.Errorf("%w: item %d header", ErrShortCPF, i)
		}
		itemType := ItemType(bo.Uint16(data[offset : offset+2]))
		itemLen := int(bo.Uint16(data[offset+2 : offset+4]))
		offset += 4
		if len(data) < offset+itemLen {
			return CPF{}, fmt.Errorf("%w: item %d body", ErrShortCPF, i)
		}
		item := Item{Type: itemType, Data: data[offset : offset+itemLen]}
		cpf.Items = append(cpf.Items, item)
		offset += itemLen
	}
	return cpf, nil
}

// EncodeCPF serializes a CPF structure back to wire bytes using order
// for its header and item-list integers.
func EncodeCPF(cpf CPF, order ByteOrder) []byte {
	bo := order.Binary()
	out := make([]byte, 8)
	bo.PutUint32(out[0:4], cpf.InterfaceHandle)
	bo.PutUint16(out[4:6], cpf.Timeout)
	bo.PutUint16(out[6:8], uint16(len(cpf.Items)))
	for _, item := range cpf.Items {
		header := make([]byte, 4)
		bo.PutUint16(header[0:2], uint16(item.Type))
		bo.PutUint16(header[2:4], uint16(len(item.Data)))
		out = append(out, header...)
		out = append(out, item.Data...)
	}
	return out
}

// UnconnectedData returns the payload of the first 0x00B2 item in the
// list, which by convention carries the embedded CIP message for
// explicit (unconnected) messaging.
func (c CPF) UnconnectedData() ([]byte, bool) {
	for _, item := range c.Items {
		if item.Type == ItemUnconnectedData {
			return item.Data, true
		}
	}
	return nil, false
}

// ConnectedData returns the payload of the first 0x00B1 item, used by
// SendUnitData for connected (Class 1/3) messaging.
func (c CPF) ConnectedData() ([]byte, bool) {
	for _, item := range c.Items {
		if item.Type == ItemConnectedData {
			return item.Data, true
		}
	}
	return nil, false
}

// UnconnectedRequestCPF builds the canonical two-item request CPF used
// by explicit messaging: a null address item followed by the
// unconnected data item carrying cipData.
func UnconnectedRequestCPF(interfaceHandle uint32, timeout uint16, cipData []byte) CPF {
	return CPF{
		InterfaceHandle: interfaceHandle,
		Timeout:         timeout,
		Items: []Item{
			{Type: ItemNullAddress, Data: nil},
			{Type: ItemUnconnectedData, Data: cipData},
		},
	}
}
