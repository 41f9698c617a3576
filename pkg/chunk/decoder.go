package chunk

import "encoding/binary"

// Decoder turns a byte buffer into a chunk tree using an injected registry.
// A Decoder is not safe for concurrent use; create one per buffer.
type Decoder struct {
	Registry *Registry

	buf       []byte
	anomalies Anomalies
}

// NewDecoder returns a decoder using reg, or the default registry when reg is nil.
func NewDecoder(reg *Registry) *Decoder {
	if reg == nil {
		reg = Default()
	}
	return &Decoder{Registry: reg}
}

// Read decodes buf with reg. It never fails: structural problems are returned
// as anomalies alongside whatever part of the tree could be recovered.
func Read(buf []byte, reg *Registry) (*Tree, Anomalies) {
	return NewDecoder(reg).Decode(buf)
}

// Decode decodes buf. Payload slices are copied so the tree does not alias buf.
func (d *Decoder) Decode(buf []byte) (*Tree, Anomalies) {
	if d.Registry == nil {
		d.Registry = Default()
	}
	d.buf = buf
	d.anomalies = nil
	roots := d.readRegion(0, len(buf), 0, nil)
	anomalies := d.anomalies
	d.buf, d.anomalies = nil, nil
	return &Tree{Roots: roots}, anomalies
}

func (d *Decoder) readRegion(start, end, depth int, ancestors []uint16) []*Node {
	var nodes []*Node
	pos := start
	for pos < end {
		if end-pos < HeaderSize {
			d.record(&Anomaly{Kind: TruncatedHeader, Offset: pos, Limit: end, Ancestors: ancestors})
			break
		}
		id := binary.LittleEndian.Uint16(d.buf[pos:])
		declared := binary.LittleEndian.Uint32(d.buf[pos+2:])
		if declared < HeaderSize {
			d.record(&Anomaly{Kind: InvalidChunkSize, Offset: pos, ID: id, Declared: declared, Limit: end, Ancestors: ancestors})
			break
		}

		chunkEnd := end
		if uint64(declared) <= uint64(end-pos) {
			chunkEnd = pos + int(declared)
		} else {
			d.record(&Anomaly{Kind: ChunkOverrun, Offset: pos, ID: id, Declared: declared, Limit: end, Ancestors: ancestors})
		}

		node := &Node{ID: id, Offset: pos, Declared: declared}
		path := make([]uint16, len(ancestors)+1)
		copy(path, ancestors)
		path[len(ancestors)] = id
		d.fill(node, pos+HeaderSize, chunkEnd, depth+1, path)

		nodes = append(nodes, node)
		pos = chunkEnd
	}
	return nodes
}

func (d *Decoder) fill(n *Node, start, end, depth int, path []uint16) {
	entry := d.Registry.Lookup(n.ID)
	switch entry.Kind {
	case Flat:
		n.Payload = d.copy(start, end)
	case Container:
		body := start + d.prefixLen(entry.Prefix, start, end)
		n.Payload = d.copy(start, body)
		n.Children = d.readRegion(body, end, depth, path)
	default:
		if !d.looksNested(start, end) {
			n.Payload = d.copy(start, end)
			break
		}
		before := len(d.anomalies)
		n.Children = d.readRegion(start, end, depth, path)
		if len(d.anomalies) > before {
			// keep the anomalies but not a partial parse
			n.Children = nil
			n.Payload = d.copy(start, end)
		}
	}
}

// prefixLen returns how many payload bytes precede the children. When the
// prefix cannot be fully read the whole region is kept as payload so that
// nothing is lost and payload decoding reports the damage.
func (d *Decoder) prefixLen(p Prefix, start, end int) int {
	size := end - start
	switch p {
	case PrefixCString:
		for i := start; i < end; i++ {
			if d.buf[i] == 0 {
				return i - start + 1
			}
		}
		return size
	case PrefixFaceArray:
		if size < 2 {
			return size
		}
		count := int(binary.LittleEndian.Uint16(d.buf[start:]))
		if n := 2 + count*8; n <= size {
			return n
		}
		return size
	default:
		return 0
	}
}

func (d *Decoder) looksNested(start, end int) bool {
	if end-start < HeaderSize {
		return false
	}
	inner := binary.LittleEndian.Uint32(d.buf[start+2:])
	return inner >= HeaderSize && uint64(inner) <= uint64(end-start)
}

func (d *Decoder) copy(start, end int) []byte {
	if start >= end {
		return nil
	}
	return append([]byte(nil), d.buf[start:end]...)
}

func (d *Decoder) record(a *Anomaly) {
	d.anomalies = append(d.anomalies, a)
}
