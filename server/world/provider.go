package world

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"
)

// ChunkRecord is the on-disk/on-wire representation of a chunk: coord,
// state tag, full pixel and color buffers, and optional background/light
// trailers.
type ChunkRecord struct {
	Coord      ChunkCoord
	State      State
	Pixels     []MaterialInstance
	Colors     []byte
	Background []MaterialInstance // nil if absent
	Light      [][3]float32       // nil if absent
}

// Provider is the external persistence contract. A World holds one and
// closes it in World.Close; the tick sweeps never call LoadChunk or
// SaveChunk, so chunks are always generated fresh and unloaded chunks are
// discarded without being saved.
type Provider interface {
	LoadChunk(coord ChunkCoord) (*ChunkRecord, bool, error)
	SaveChunk(coord ChunkCoord, record *ChunkRecord) error
	Close() error
}

// NopProvider never has anything stored; every load misses. Used to build
// a World in tests without disk I/O.
type NopProvider struct{}

func (NopProvider) LoadChunk(ChunkCoord) (*ChunkRecord, bool, error) { return nil, false, nil }
func (NopProvider) SaveChunk(ChunkCoord, *ChunkRecord) error         { return nil }
func (NopProvider) Close() error                                    { return nil }

// LevelDBProvider persists chunk records in a LevelDB database keyed by the
// chunk's 32-bit Cantor id, big-endian so neighbouring chunks cluster in
// key order.
type LevelDBProvider struct {
	db *leveldb.DB
}

// NewLevelDBProvider opens (creating if absent) a LevelDB database at path.
func NewLevelDBProvider(path string) (*LevelDBProvider, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("world: open leveldb provider: %w", err)
	}
	return &LevelDBProvider{db: db}, nil
}

func dbKey(id ChunkId) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(id))
	return b[:]
}

func (p *LevelDBProvider) LoadChunk(coord ChunkCoord) (*ChunkRecord, bool, error) {
	id, err := CoordToID(coord)
	if err != nil {
		return nil, false, err
	}
	data, err := p.db.Get(dbKey(id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("world: load chunk %v: %w", coord, err)
	}
	rec, err := decodeChunkRecord(data)
	if err != nil {
		return nil, false, fmt.Errorf("world: decode chunk %v: %w", coord, err)
	}
	return rec, true, nil
}

func (p *LevelDBProvider) SaveChunk(coord ChunkCoord, record *ChunkRecord) error {
	id, err := CoordToID(coord)
	if err != nil {
		return err
	}
	data := encodeChunkRecord(record)
	if err := p.db.Put(dbKey(id), data, nil); err != nil {
		return fmt.Errorf("world: save chunk %v: %w", coord, err)
	}
	return nil
}

func (p *LevelDBProvider) Close() error {
	return p.db.Close()
}

const (
	recordFlagBackground = 1 << 0
	recordFlagLight      = 1 << 1
)

// encodeChunkRecord serialises a record little-endian.
func encodeChunkRecord(r *ChunkRecord) []byte {
	n := len(r.Pixels)
	size := 4 + 4 + 1 + 1 + 1 + 2 + n*materialSize + len(r.Colors)
	var flags byte
	if r.Background != nil {
		flags |= recordFlagBackground
		size += n * materialSize
	}
	if r.Light != nil {
		flags |= recordFlagLight
		size += n * 12
	}
	buf := make([]byte, size)
	o := 0
	binary.LittleEndian.PutUint32(buf[o:], uint32(r.Coord.X))
	o += 4
	binary.LittleEndian.PutUint32(buf[o:], uint32(r.Coord.Y))
	o += 4
	buf[o] = byte(r.State.Kind)
	o++
	buf[o] = r.State.Stage
	o++
	buf[o] = flags
	o++
	binary.LittleEndian.PutUint16(buf[o:], uint16(n))
	o += 2
	for _, p := range r.Pixels {
		o += encodeMaterial(buf[o:], p)
	}
	o += copy(buf[o:], r.Colors)
	if flags&recordFlagBackground != 0 {
		for _, p := range r.Background {
			o += encodeMaterial(buf[o:], p)
		}
	}
	if flags&recordFlagLight != 0 {
		for _, l := range r.Light {
			binary.LittleEndian.PutUint32(buf[o:], float32bits(l[0]))
			binary.LittleEndian.PutUint32(buf[o+4:], float32bits(l[1]))
			binary.LittleEndian.PutUint32(buf[o+8:], float32bits(l[2]))
			o += 12
		}
	}
	return buf[:o]
}

const materialSize = 4 + 1 + 4 + 12 // id + physics + rgba + 3*f32 light

func encodeMaterial(buf []byte, m MaterialInstance) int {
	binary.LittleEndian.PutUint32(buf, m.MaterialID)
	buf[4] = m.Physics
	copy(buf[5:9], m.Color[:])
	binary.LittleEndian.PutUint32(buf[9:], float32bits(m.Light[0]))
	binary.LittleEndian.PutUint32(buf[13:], float32bits(m.Light[1]))
	binary.LittleEndian.PutUint32(buf[17:], float32bits(m.Light[2]))
	return materialSize
}

func decodeMaterial(buf []byte) MaterialInstance {
	var m MaterialInstance
	m.MaterialID = binary.LittleEndian.Uint32(buf)
	m.Physics = buf[4]
	copy(m.Color[:], buf[5:9])
	m.Light[0] = float32frombits(binary.LittleEndian.Uint32(buf[9:]))
	m.Light[1] = float32frombits(binary.LittleEndian.Uint32(buf[13:]))
	m.Light[2] = float32frombits(binary.LittleEndian.Uint32(buf[17:]))
	return m
}

func decodeChunkRecord(data []byte) (*ChunkRecord, error) {
	if len(data) < 4+4+1+1+1+2 {
		return nil, BufferSizeMismatchError{Expected: 4 + 4 + 1 + 1 + 1 + 2, Actual: len(data)}
	}
	o := 0
	r := &ChunkRecord{}
	r.Coord.X = int32(binary.LittleEndian.Uint32(data[o:]))
	o += 4
	r.Coord.Y = int32(binary.LittleEndian.Uint32(data[o:]))
	o += 4
	r.State.Kind = StateKind(data[o])
	o++
	r.State.Stage = data[o]
	o++
	flags := data[o]
	o++
	n := int(binary.LittleEndian.Uint16(data[o:]))
	o += 2

	r.Pixels = make([]MaterialInstance, n)
	for i := range r.Pixels {
		r.Pixels[i] = decodeMaterial(data[o:])
		o += materialSize
	}
	colorsLen := n * 4
	r.Colors = append([]byte(nil), data[o:o+colorsLen]...)
	o += colorsLen

	if flags&recordFlagBackground != 0 {
		r.Background = make([]MaterialInstance, n)
		for i := range r.Background {
			r.Background[i] = decodeMaterial(data[o:])
			o += materialSize
		}
	}
	if flags&recordFlagLight != 0 {
		r.Light = make([][3]float32, n)
		for i := range r.Light {
			r.Light[i][0] = float32frombits(binary.LittleEndian.Uint32(data[o:]))
			r.Light[i][1] = float32frombits(binary.LittleEndian.Uint32(data[o+4:]))
			r.Light[i][2] = float32frombits(binary.LittleEndian.Uint32(data[o+8:]))
			o += 12
		}
	}
	return r, nil
}
