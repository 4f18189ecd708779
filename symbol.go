package lanefec

// Symbol is one recovery symbol handed back by Encode. Data aliases
// the encoder's internal Sum buffer: it is only valid until the next
// call to Encode on the same *Encoder, or until the encoder is
// garbage collected. Callers that need to keep the bytes past that
// point must copy them first.
type Symbol struct {
	Data  []byte
	Bytes int
	Index uint32
}
