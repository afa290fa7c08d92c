package export

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"github.com/Faultbox/phyllo/pkg/mesh"
)

// JSON writes a BufferGeometry-style document: flat position, normal and
// color attributes, a Uint32 index and the material groups.
type JSON struct {
	UUID      string   // Geometry id, random when empty
	SlotNames []string // Written to metadata.materials
	Indent    bool
}

type jsonDoc struct {
	Metadata jsonMeta `json:"metadata"`
	UUID     string   `json:"uuid"`
	Type     string   `json:"type"`
	Data     jsonData `json:"data"`
}

type jsonMeta struct {
	Version   float64  `json:"version"`
	Type      string   `json:"type"`
	Generator string   `json:"generator"`
	Vertices  int      `json:"vertices"`
	Faces     int      `json:"faces"`
	Materials []string `json:"materials,omitempty"`
}

type jsonData struct {
	Attributes jsonAttributes `json:"attributes"`
	Index      jsonIndex      `json:"index"`
	Groups     []jsonGroup    `json:"groups"`
	Bounds     jsonBounds     `json:"boundingBox"`
}

type jsonAttributes struct {
	Position jsonAttribute `json:"position"`
	Normal   jsonAttribute `json:"normal"`
	Color    jsonAttribute `json:"color"`
}

type jsonAttribute struct {
	ItemSize   int       `json:"itemSize"`
	Type       string    `json:"type"`
	Array      []float32 `json:"array"`
	Normalized bool      `json:"normalized"`
}

type jsonIndex struct {
	Type  string   `json:"type"`
	Array []uint32 `json:"array"`
}

type jsonGroup struct {
	Start         int `json:"start"`
	Count         int `json:"count"`
	MaterialIndex int `json:"materialIndex"`
}

type jsonBounds struct {
	Min [3]float32 `json:"min"`
	Max [3]float32 `json:"max"`
}

// Export implements Exporter.
func (j *JSON) Export(w io.Writer, b *mesh.Buffer) error {
	if err := check(b); err != nil {
		return err
	}

	id := j.UUID
	if id == "" {
		id = uuid.NewString()
	}

	normals := make([]float32, 0, 3*b.VertexCount())
	for _, n := range b.VertexNormals() {
		normals = append(normals, n.X, n.Y, n.Z)
	}

	groups := make([]jsonGroup, len(b.Groups))
	for i, g := range b.Groups {
		groups[i] = jsonGroup{Start: g.StartIndex, Count: g.IndexCount, MaterialIndex: g.Slot}
	}

	var materials []string
	for _, g := range b.Groups {
		for len(materials) <= g.Slot {
			materials = append(materials, slotName(j.SlotNames, len(materials)))
		}
	}

	bounds := b.Bounds()
	if bounds.Empty() {
		bounds = mesh.Bounds{}
	}

	doc := jsonDoc{
		Metadata: jsonMeta{
			Version:   4.5,
			Type:      "BufferGeometry",
			Generator: "phyllo",
			Vertices:  b.VertexCount(),
			Faces:     b.FaceCount(),
			Materials: materials,
		},
		UUID: id,
		Type: "BufferGeometry",
		Data: jsonData{
			Attributes: jsonAttributes{
				Position: jsonAttribute{ItemSize: 3, Type: "Float32Array", Array: nonNil(b.Vertices)},
				Normal:   jsonAttribute{ItemSize: 3, Type: "Float32Array", Array: normals},
				Color:    jsonAttribute{ItemSize: 3, Type: "Float32Array", Array: nonNil(b.Colors)},
			},
			Index:  jsonIndex{Type: "Uint32Array", Array: nonNil(b.Indices)},
			Groups: groups,
			Bounds: jsonBounds{Min: bounds.Min, Max: bounds.Max},
		},
	}

	enc := json.NewEncoder(w)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
