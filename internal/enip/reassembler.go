package enip

// Frame is one fully-framed encapsulation packet extracted from a
// byte stream, together with the byte order its header was decided to
// carry.
type Frame struct {
	Data  []byte
	Order ByteOrder
}

// Reassembler accumulates bytes arriving on one TCP connection and
// extracts whole encapsulation frames from them, probing the byte
// order fresh at every frame boundary (a single client may,
// unusually, mix orders across packets on the same connection).
type Reassembler struct {
	buf []byte
}

// Feed appends newly-read bytes to the internal buffer.
func (r *Reassembler) Feed(data []byte) {
	r.buf = append(r.buf, data...)
}

// Drain repeatedly extracts whole frames from the buffer until it
// either runs dry or hits an incomplete frame. dropped reports how
// many bytes were discarded because a frame's declared length made it
// unrecoverable; callers should log this.
func (r *Reassembler) Drain() (frames []Frame, dropped int) {
	for {
		frame, order, state := r.extract()
		switch state {
		case extractOK:
			frames = append(frames, Frame{Data: frame, Order: order})
		case extractIncomplete:
			return frames, dropped
		case extractUnrecoverable:
			dropped += len(r.buf)
			r.buf = r.buf[:0]
			return frames, dropped
		}
	}
}

type extractState int

const (
	extractIncomplete extractState = iota
	extractOK
	extractUnrecoverable
)

func (r *Reassembler) extract() ([]byte, ByteOrder, extractState) {
	if len(r.buf) < HeaderSize {
		return nil, 0, extractIncomplete
	}
	order := DetectByteOrder(r.buf[:4])
	bo := order.Binary()
	length := bo.Uint16(r.buf[2:4])
	frameLen := HeaderSize + int(length)
	if frameLen < HeaderSize || frameLen > MaxFrameLength {
		return nil, order, extractUnrecoverable
	}
	if len(r.buf) < frameLen {
		return nil, order, extractIncomplete
	}
	frame := make([]byte, frameLen)
	copy(frame, r.buf[:frameLen])
	r.buf = r.buf[frameLen:]
	return frame, order, extractOK
}

// Pending reports how many unconsumed bytes are currently buffered.
func (r *Reassembler) Pending() int {
	return len(r.buf)
}
