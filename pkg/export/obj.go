package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/phyllo/pkg/mesh"
)

// OBJ writes Wavefront OBJ. Vertex colours are appended to the v lines, one
// g/usemtl pair is emitted per group and smooth normals are included.
// With UVs set, each face corner gets a planar texture coordinate.
type OBJ struct {
	Object    string   // Object name, "phyllo" when empty
	SlotNames []string // Material name per slot
	UVs       bool
}

// Export implements Exporter.
func (o *OBJ) Export(w io.Writer, b *mesh.Buffer) error {
	if err := check(b); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	name := o.Object
	if name == "" {
		name = "phyllo"
	}
	fmt.Fprintf(bw, "# %d vertices, %d faces\n", b.VertexCount(), b.FaceCount())
	fmt.Fprintf(bw, "o %s\n", name)

	for i := 0; i < b.VertexCount(); i++ {
		p, c := b.Position(i), b.Color(i)
		fmt.Fprintf(bw, "v %s %s %s %s %s %s\n", num(p.X), num(p.Y), num(p.Z), num(c.R), num(c.G), num(c.B))
	}
	for _, n := range b.VertexNormals() {
		fmt.Fprintf(bw, "vn %s %s %s\n", num(n.X), num(n.Y), num(n.Z))
	}
	if o.UVs {
		for _, uv := range b.FaceUVs() {
			for _, c := range uv {
				fmt.Fprintf(bw, "vt %s %s\n", num(c.X), num(c.Y))
			}
		}
	}

	for _, g := range b.Groups {
		mat := slotName(o.SlotNames, g.Slot)
		fmt.Fprintf(bw, "g %s\nusemtl %s\n", mat, mat)
		for face := g.StartIndex / 3; face < g.End()/3; face++ {
			bw.WriteString("f")
			for corner := 0; corner < 3; corner++ {
				v := b.Indices[3*face+corner] + 1
				if o.UVs {
					fmt.Fprintf(bw, " %d/%d/%d", v, 3*face+corner+1, v)
				} else {
					fmt.Fprintf(bw, " %d//%d", v, v)
				}
			}
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

// num formats f with the shortest representation that round-trips.
func num(f float32) string {
	return fmt.Sprint(f)
}
