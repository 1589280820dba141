package mansion

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
)

// Digest hashes the complete mutable state, including how far the random
// stream has advanced. Two mansions with equal digests behave identically
// from here on.
func (m *Mansion) Digest() string {
	h := sha256.New()
	var tmp [8]byte

	m.digestHeader(h, &tmp)
	m.digestPlayers(h, &tmp)
	m.digestItems(h, &tmp)
	m.digestRooms(h, &tmp)

	return hex.EncodeToString(h.Sum(nil))
}

func digestWriteU64(h hash.Hash, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hash.Hash, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

func digestWriteString(h hash.Hash, tmp *[8]byte, s string) {
	digestWriteU64(h, tmp, uint64(len(s)))
	h.Write([]byte(s))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (m *Mansion) digestHeader(h hash.Hash, tmp *[8]byte) {
	digestWriteString(h, tmp, m.seed.String())
	digestWriteU64(h, tmp, m.turn)
	digestWriteI64(h, tmp, int64(m.timeVal))
	digestWriteI64(h, tmp, int64(m.coolDown))
	digestWriteU64(h, tmp, m.rand.Draws())
	digestWriteI64(h, tmp, int64(m.dims.Rows))
	digestWriteI64(h, tmp, int64(m.dims.Cols))
}

func (m *Mansion) digestPlayers(h hash.Hash, tmp *[8]byte) {
	digestWriteU64(h, tmp, uint64(len(m.players)))
	for _, p := range m.players {
		digestWriteString(h, tmp, p.name)
		h.Write([]byte{boolByte(p.alive), boolByte(p.murderer)})
		digestWriteI64(h, tmp, int64(p.held))
		digestWriteI64(h, tmp, int64(p.moves))
		digestWriteI64(h, tmp, int64(p.loc.Row))
		digestWriteI64(h, tmp, int64(p.loc.Col))
	}
}

func (m *Mansion) digestItems(h hash.Hash, tmp *[8]byte) {
	digestWriteU64(h, tmp, uint64(len(m.items)))
	for _, it := range m.items {
		digestWriteString(h, tmp, it.name)
		digestWriteString(h, tmp, it.location)
		h.Write([]byte{boolByte(it.marked)})
	}
}

func (m *Mansion) digestRooms(h hash.Hash, tmp *[8]byte) {
	for _, row := range m.grid {
		for _, r := range row {
			digestWriteString(h, tmp, r.name)
			digestWriteU64(h, tmp, uint64(len(r.people)))
			for _, id := range r.people {
				digestWriteI64(h, tmp, int64(id))
			}
			digestWriteU64(h, tmp, uint64(len(r.items)))
			for _, id := range r.items {
				digestWriteI64(h, tmp, int64(id))
			}
		}
	}
}
