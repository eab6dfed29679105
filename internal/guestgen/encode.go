package guestgen

// Section ids, value types, and opcodes used by the demo guest.
const (
	secType     = 1
	secImport   = 2
	secFunction = 3
	secMemory   = 5
	secGlobal   = 6
	secExport   = 7
	secCode     = 10

	valI32 = 0x7F

	opEnd       = 0x0B
	opCall      = 0x10
	opLocalGet  = 0x20
	opLocalSet  = 0x21
	opGlobalGet = 0x23
	opGlobalSet = 0x24
	opI32Const  = 0x41
	opI32Add    = 0x6A
	opI32And    = 0x71
)

// writer accumulates wasm binary output.
type writer struct {
	bytes []byte
}

func (w *writer) raw(b ...byte) {
	w.bytes = append(w.bytes, b...)
}

// u32 writes an unsigned LEB128 value.
func (w *writer) u32(v uint32) {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.bytes = append(w.bytes, b)
		if v == 0 {
			return
		}
	}
}

// s32 writes a signed LEB128 value.
func (w *writer) s32(v int32) {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			w.bytes = append(w.bytes, b)
			return
		}
		w.bytes = append(w.bytes, b|0x80)
	}
}

// name writes a length-prefixed UTF-8 name.
func (w *writer) name(s string) {
	w.u32(uint32(len(s)))
	w.bytes = append(w.bytes, s...)
}

// section writes a sized section: id, byte length, payload.
func (w *writer) section(id byte, payload func(*writer)) {
	var body writer
	payload(&body)
	w.bytes = append(w.bytes, id)
	w.u32(uint32(len(body.bytes)))
	w.bytes = append(w.bytes, body.bytes...)
}

// body writes a sized code entry.
func (w *writer) body(code []byte) {
	w.u32(uint32(len(code)))
	w.bytes = append(w.bytes, code...)
}
