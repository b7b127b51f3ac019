package terrain

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// jsonFile is the on-disk format written by stripgen.
type jsonFile struct {
	TileSize     int         `json:"tile_size"`
	BufferHeight int         `json:"buffer_height"`
	Strips       []jsonStrip `json:"strips"`
}

type jsonStrip struct {
	Columns     int             `json:"columns"`
	Reference   int             `json:"reference_row"`
	BottomRow   int             `json:"bottom_row"`
	EntryGround int             `json:"entry_ground"`
	ExitGround  int             `json:"exit_ground"`
	Placements  []jsonPlacement `json:"placements"`
}

type jsonPlacement struct {
	Sprite string `json:"sprite"`
	Col    int    `json:"col"`
	Row    int    `json:"row"`
	Kind   string `json:"kind"`
}

// Sequence is a run of consecutive strips plus the geometry they were
// generated for.
type Sequence struct {
	TileSize     int
	BufferHeight int
	Strips       []*Strip
}

// Width returns the total column count.
func (seq *Sequence) Width() int {
	n := 0
	for _, s := range seq.Strips {
		n += s.Columns
	}
	return n
}

// WriteJSON encodes seq as indented JSON.
func WriteJSON(w io.Writer, seq *Sequence) error {
	out := jsonFile{TileSize: seq.TileSize, BufferHeight: seq.BufferHeight}
	for _, s := range seq.Strips {
		js := jsonStrip{
			Columns:     s.Columns,
			Reference:   s.Reference,
			BottomRow:   s.BottomRow,
			EntryGround: s.EntryGround,
			ExitGround:  s.ExitGround,
			Placements:  make([]jsonPlacement, len(s.Placements)),
		}
		for i, p := range s.Placements {
			js.Placements[i] = jsonPlacement{Sprite: p.Sprite, Col: p.Col, Row: p.Row, Kind: p.Kind.String()}
		}
		out.Strips = append(out.Strips, js)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ReadJSON decodes and validates a sequence written by WriteJSON.
func ReadJSON(r io.Reader) (*Sequence, error) {
	var in jsonFile
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode strips: %w", err)
	}
	if in.TileSize <= 0 || in.BufferHeight <= 0 {
		return nil, fmt.Errorf("invalid geometry: tile %d, height %d", in.TileSize, in.BufferHeight)
	}

	seq := &Sequence{TileSize: in.TileSize, BufferHeight: in.BufferHeight}
	for i, js := range in.Strips {
		if js.Columns <= 0 {
			return nil, fmt.Errorf("strip %d: invalid width %d", i, js.Columns)
		}
		s := &Strip{
			Columns:     js.Columns,
			Reference:   js.Reference,
			BottomRow:   js.BottomRow,
			EntryGround: js.EntryGround,
			ExitGround:  js.ExitGround,
			Placements:  make([]Placement, len(js.Placements)),
		}
		for j, jp := range js.Placements {
			kind, err := ParseKind(jp.Kind)
			if err != nil {
				return nil, fmt.Errorf("strip %d placement %d: %w", i, j, err)
			}
			if jp.Col < 0 || jp.Col >= js.Columns {
				return nil, fmt.Errorf("strip %d placement %d: column %d out of range", i, j, jp.Col)
			}
			s.Placements[j] = Placement{Sprite: jp.Sprite, Col: jp.Col, Row: jp.Row, Kind: kind}
		}
		seq.Strips = append(seq.Strips, s)
	}
	return seq, nil
}

// SaveJSON writes seq to path.
func SaveJSON(path string, seq *Sequence) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, seq); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadJSON reads a sequence from path.
func LoadJSON(path string) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}
