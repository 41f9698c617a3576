package chunk

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

var (
	ErrTruncatedHeader  = errors.New("truncated chunk header")
	ErrInvalidChunkSize = errors.New("invalid chunk size")
	ErrChunkOverrun     = errors.New("chunk overruns parent")
)

// AnomalyKind classifies a structural problem found while decoding.
type AnomalyKind uint8

const (
	TruncatedHeader AnomalyKind = iota + 1
	InvalidChunkSize
	ChunkOverrun
)

func (k AnomalyKind) String() string {
	switch k {
	case TruncatedHeader:
		return "TruncatedHeader"
	case InvalidChunkSize:
		return "InvalidChunkSize"
	case ChunkOverrun:
		return "ChunkOverrun"
	default:
		return fmt.Sprintf("AnomalyKind(%d)", uint8(k))
	}
}

func (k AnomalyKind) sentinel() error {
	switch k {
	case TruncatedHeader:
		return ErrTruncatedHeader
	case InvalidChunkSize:
		return ErrInvalidChunkSize
	default:
		return ErrChunkOverrun
	}
}

// Anomaly is one structural problem. ID and Declared are zero for a
// TruncatedHeader since no header could be read.
type Anomaly struct {
	Kind      AnomalyKind
	Offset    int      // byte offset of the offending header
	ID        uint16   // chunk type id
	Declared  uint32   // declared total length
	Limit     int      // end of the enclosing region
	Ancestors []uint16 // ids of enclosing chunks, outermost first
}

func (a *Anomaly) Error() string {
	var sb strings.Builder
	switch a.Kind {
	case TruncatedHeader:
		fmt.Fprintf(&sb, "%v at %d (region ends at %d)", a.Kind.sentinel(), a.Offset, a.Limit)
	default:
		fmt.Fprintf(&sb, "%v: 0x%04X at %d declares %d bytes (region ends at %d)",
			a.Kind.sentinel(), a.ID, a.Offset, a.Declared, a.Limit)
	}
	if len(a.Ancestors) > 0 {
		sb.WriteString(" in ")
		for i, id := range a.Ancestors {
			if i > 0 {
				sb.WriteByte('/')
			}
			fmt.Fprintf(&sb, "0x%04X", id)
		}
	}
	return sb.String()
}

func (a *Anomaly) Unwrap() error {
	return a.Kind.sentinel()
}

// Touches reports whether the anomaly concerns a chunk with one of ids, either
// as the chunk itself or as one of its ancestors.
func (a *Anomaly) Touches(ids ...uint16) bool {
	for _, want := range ids {
		if a.Kind != TruncatedHeader && a.ID == want {
			return true
		}
		for _, anc := range a.Ancestors {
			if anc == want {
				return true
			}
		}
	}
	return false
}

// Anomalies is the ordered list produced by one decode.
type Anomalies []*Anomaly

// Err combines all anomalies into one error, nil when empty.
func (as Anomalies) Err() error {
	var err error
	for _, a := range as {
		err = multierr.Append(err, a)
	}
	return err
}

// Within returns the anomalies that touch any of ids.
func (as Anomalies) Within(ids ...uint16) Anomalies {
	var out Anomalies
	for _, a := range as {
		if a.Touches(ids...) {
			out = append(out, a)
		}
	}
	return out
}
