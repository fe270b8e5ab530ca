package enip

import (
	"bytes"
	"testing"
)

func TestCPFRoundTrip(t *testing.T) {
	cpf := UnconnectedRequestCPF(0, 5000, []byte{0x01, 0x02, 0x03})
	encoded := EncodeCPF(cpf, BigEndian)
	decoded, err := DecodeCPF(encoded, BigEndian)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Timeout != 5000 {
		t.Fatalf("timeout mismatch: %d", decoded.Timeout)
	}
	data, ok := decoded.UnconnectedData()
	if !ok {
		t.Fatal("expected unconnected data item")
	}
	if !bytes.Equal(data, []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("unconnected data mismatch: %x", data)
	}
}

func TestCPFToleratesReorderedItems(t *testing.T) {
	cpf := CPF{
		InterfaceHandle: 0,
		Timeout:         0,
		Items: []Item{
			{Type: ItemUnconnectedData, Data: []byte{0xAB}},
			{Type: ItemNullAddress, Data: nil},
		},
	}
	encoded := EncodeCPF(cpf, LittleEndian)
	decoded, err := DecodeCPF(encoded, LittleEndian)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	data, ok := decoded.UnconnectedData()
	if !ok || !bytes.Equal(data, []byte{0xAB}) {
		t.Fatalf("unconnected data not found after reordered items: %v %x", ok, data)
	}
}

func TestCPFShortBuffer(t *testing.T) {
	if _, err := DecodeCPF([]byte{1, 2, 3}, BigEndian); err == nil {
		t.Fatal("expected error for short CPF buffer")
	}
}
