package server

import (
	"encoding/binary"
	"time"

	"github.com/BurakDalkiran34/simulator-ethernetip-server/internal/cip"
	"github.com/BurakDalkiran34/simulator-ethernetip-server/internal/tagstore"
)

// handleReadTag implements service 0x4C: resolve the path's symbolic
// name (which the tag store further resolves by name, then positional
// address, then trailing numeric index, per its own fallback order)
// and return a fresh DINT value, per §4.8.
func (s *Server) handleReadTag(req cip.Request) cip.Response {
	resp, ok := s.readTag(req)
	if !ok {
		return cip.ErrorResponse(req.Service, cip.StatusPathDestinationUnknown)
	}
	return resp
}

// tryTagRead is the same tag resolution, used as a fallback when
// Get_Attribute_Single targets a class this object model does not
// recognize, since some clients phrase tag reads that way.
func (s *Server) tryTagRead(req cip.Request) (cip.Response, bool) {
	return s.readTag(req)
}

func (s *Server) readTag(req cip.Request) (cip.Response, bool) {
	name, ok := req.Path.TagName()
	if !ok {
		return cip.Response{}, false
	}
	tag, ok := s.tags.Resolve(name)
	if !ok {
		return cip.Response{}, false
	}
	value, _ := s.tags.Read(tag, time.Now())

	data := make([]byte, 6)
	binary.LittleEndian.PutUint16(data[0:2], tagstore.DataTypeDINT)
	binary.LittleEndian.PutUint32(data[2:6], uint32(value))

	return cip.Response{Service: req.Service, Status: cip.StatusSuccess, Data: data}, true
}
